/*
 * @module service/ingest/normalizer
 * @description 列名映射与类型规范化，将源表头（韩文生产导出）重命名为规范字段并完成类型转换
 * @architecture 分层架构 - 数据清洗层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 字符串表格 -> 列映射 -> 类型转换 -> TaskRecord集合 + 导入摘要
 * @rules 数值转换失败兜底为0、日期转换失败置null（静默恢复并计数），缺少必需列则整体失败
 * @dependencies github.com/spf13/cast, annotation-metrics-service/service/models
 * @refs service/ingest/source.go, service/metrics
 */

package ingest

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"annotation-metrics-service/service/models"

	"github.com/spf13/cast"
)

// 规范字段名
const (
	FieldTaskID               = "task_id"
	FieldProjectID            = "project_id"
	FieldStatus               = "status"
	FieldAnnotationsCompleted = "annotations_completed"
	FieldValidCount           = "valid_count"
	FieldReworkRequired       = "rework_required"
	FieldAnnotatorID          = "annotator_id"
	FieldAnnotatorName        = "annotator_name"
	FieldCheckerID            = "checker_id"
	FieldCheckerName          = "checker_name"
	FieldWorkDate             = "work_date"
	FieldReviewDate           = "review_date"
	FieldTimeSpentMinutes     = "time_spent_minutes"
)

// DefaultHeaderMapping 默认表头映射：韩文生产导出表头 -> 规范字段。
// 同时收录规范字段自身，保证导出的CSV可以原样重新导入。
var DefaultHeaderMapping = map[string]string{
	"작업ID":     FieldTaskID,
	"프로젝트ID":   FieldProjectID,
	"상태":       FieldStatus,
	"완료 오브젝트 수": FieldAnnotationsCompleted,
	"유효 오브젝트 수": FieldValidCount,
	"반려 횟수":    FieldReworkRequired,
	"작업자ID":    FieldAnnotatorID,
	"작업자명":     FieldAnnotatorName,
	"검수자ID":    FieldCheckerID,
	"검수자명":     FieldCheckerName,
	"작업 완료일":   FieldWorkDate,
	"검수 완료일":   FieldReviewDate,
	"작업시간(분)":  FieldTimeSpentMinutes,

	FieldTaskID:               FieldTaskID,
	FieldProjectID:            FieldProjectID,
	FieldStatus:               FieldStatus,
	FieldAnnotationsCompleted: FieldAnnotationsCompleted,
	FieldValidCount:           FieldValidCount,
	FieldReworkRequired:       FieldReworkRequired,
	FieldAnnotatorID:          FieldAnnotatorID,
	FieldAnnotatorName:        FieldAnnotatorName,
	FieldCheckerID:            FieldCheckerID,
	FieldCheckerName:          FieldCheckerName,
	FieldWorkDate:             FieldWorkDate,
	FieldReviewDate:           FieldReviewDate,
	FieldTimeSpentMinutes:     FieldTimeSpentMinutes,
}

// requiredFields 缺失时视为输入结构错误，导入整体失败
var requiredFields = []string{FieldTaskID, FieldWorkDate}

// dateLayouts 支持的日期格式，按顺序尝试
var dateLayouts = []string{
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006년 01월 02일",
}

// Normalizer 列映射与类型规范化器
type Normalizer struct {
	headerMapping map[string]string
}

// NewNormalizer 创建规范化器，mapping为nil时使用默认韩文表头映射
func NewNormalizer(mapping map[string]string) *Normalizer {
	if mapping == nil {
		mapping = DefaultHeaderMapping
	}
	return &Normalizer{headerMapping: mapping}
}

// Normalize 将字符串表格规范化为TaskRecord集合。
// 未映射的列丢弃，缺失的期望列按空值补齐；单元格级的转换失败静默兜底并计数。
func (n *Normalizer) Normalize(header []string, rows [][]string) ([]models.TaskRecord, *models.IngestSummary, error) {
	columnIndex := make(map[string]int)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if canonical, ok := n.headerMapping[name]; ok {
			columnIndex[canonical] = i
		}
	}

	var missing []string
	for _, field := range requiredFields {
		if _, ok := columnIndex[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("缺少必需列: %s，请确认上传文件的表头", strings.Join(missing, ", "))
	}

	summary := &models.IngestSummary{IngestedAt: time.Now()}
	records := make([]models.TaskRecord, 0, len(rows))

	for _, row := range rows {
		cell := func(field string) string {
			idx, ok := columnIndex[field]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		rec := models.TaskRecord{
			TaskID:               cell(FieldTaskID),
			ProjectID:            cell(FieldProjectID),
			Status:               cell(FieldStatus),
			AnnotationsCompleted: n.coerceInt(cell(FieldAnnotationsCompleted), summary),
			ValidCount:           n.coerceInt(cell(FieldValidCount), summary),
			ReworkRequired:       n.coerceInt(cell(FieldReworkRequired), summary),
			AnnotatorID:          cell(FieldAnnotatorID),
			AnnotatorName:        cell(FieldAnnotatorName),
			CheckerID:            cell(FieldCheckerID),
			CheckerName:          cell(FieldCheckerName),
			WorkDate:             n.coerceDate(cell(FieldWorkDate), summary),
			ReviewDate:           n.coerceDate(cell(FieldReviewDate), summary),
			TimeSpentMinutes:     n.coerceInt(cell(FieldTimeSpentMinutes), summary),
		}

		if rec.WorkDate == nil {
			summary.NullWorkDates++
		}
		if rec.ValidCount > rec.AnnotationsCompleted {
			summary.QualityWarnings = append(summary.QualityWarnings,
				fmt.Sprintf("任务 %s 的有效对象数(%d)超过完成对象数(%d)", rec.TaskID, rec.ValidCount, rec.AnnotationsCompleted))
		}

		records = append(records, rec)
	}

	summary.TotalRows = len(records)
	rowsIngestedTotal.Add(float64(len(records)))

	slog.Info("规范化完成",
		"rows", summary.TotalRows,
		"coerced_fields", summary.CoercedFields,
		"null_work_dates", summary.NullWorkDates,
		"quality_warnings", len(summary.QualityWarnings))

	return records, summary, nil
}

// coerceInt 宽松整数转换：空值为0不计数，非空转换失败兜底为0并计入摘要。
// 布尔样式的返工标记（true/Y）按1处理。
func (n *Normalizer) coerceInt(value string, summary *models.IngestSummary) int {
	if value == "" {
		return 0
	}
	switch strings.ToLower(value) {
	case "true", "y", "yes":
		return 1
	case "false", "n", "no":
		return 0
	}
	parsed, err := cast.ToIntE(value)
	if err != nil {
		summary.CoercedFields++
		fieldsCoercedTotal.Inc()
		return 0
	}
	if parsed < 0 {
		return 0
	}
	return parsed
}

// coerceDate 宽松日期转换：空值与解析失败均置null，仅解析失败计入摘要
func (n *Normalizer) coerceDate(value string, summary *models.IngestSummary) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day
		}
	}
	summary.CoercedFields++
	fieldsCoercedTotal.Inc()
	return nil
}

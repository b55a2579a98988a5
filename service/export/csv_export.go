/*
 * @module service/export/csv_export
 * @description 过滤后记录集的CSV导出，使用规范表头，保证可经规范化器原样重新导入
 * @architecture 分层架构 - 导出层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 过滤后记录集 -> 规范表头 -> 逐行写出
 * @rules 日期格式2006-01-02，null日期写空串；表头必须是规范字段名以支持回环导入
 * @dependencies encoding/csv, annotation-metrics-service/service/ingest
 * @refs api/controllers/dataset_controller.go
 */

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"annotation-metrics-service/service/ingest"
	"annotation-metrics-service/service/models"
)

// ExportHeader 导出列顺序，全部为规范字段名
var ExportHeader = []string{
	ingest.FieldTaskID,
	ingest.FieldProjectID,
	ingest.FieldStatus,
	ingest.FieldAnnotationsCompleted,
	ingest.FieldValidCount,
	ingest.FieldReworkRequired,
	ingest.FieldAnnotatorID,
	ingest.FieldAnnotatorName,
	ingest.FieldCheckerID,
	ingest.FieldCheckerName,
	ingest.FieldWorkDate,
	ingest.FieldReviewDate,
	ingest.FieldTimeSpentMinutes,
}

// WriteCSV 将记录集按规范表头写为CSV
func WriteCSV(w io.Writer, records []models.TaskRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(ExportHeader); err != nil {
		return fmt.Errorf("写CSV表头失败: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.TaskID,
			rec.ProjectID,
			rec.Status,
			strconv.Itoa(rec.AnnotationsCompleted),
			strconv.Itoa(rec.ValidCount),
			strconv.Itoa(rec.ReworkRequired),
			rec.AnnotatorID,
			rec.AnnotatorName,
			rec.CheckerID,
			rec.CheckerName,
			formatDate(rec.WorkDate),
			formatDate(rec.ReviewDate),
			strconv.Itoa(rec.TimeSpentMinutes),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("写CSV数据行失败: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportFilename 带时间戳的下载文件名
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("annotation_data_%s.csv", now.Format("20060102_150405"))
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

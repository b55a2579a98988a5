/*
 * @module service/models/task_record
 * @description 标注任务记录模型定义，包含规范化后的任务行、项目配置和导入摘要
 * @architecture 分层架构 - 数据模型层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 文件上传 -> 规范化 -> 只读聚合视图
 * @rules 记录一经规范化不再变更，所有指标均为派生只读视图
 * @dependencies time
 * @refs service/ingest, service/metrics
 */

package models

import (
	"fmt"
	"time"
)

// TaskRecord 单条标注任务记录，一行对应一个任务实例
type TaskRecord struct {
	TaskID               string     `json:"task_id"`               // 任务ID，单次上传内唯一
	ProjectID            string     `json:"project_id"`            // 项目ID
	Status               string     `json:"status"`                // 状态（自由文本，如 완료/ALL_FINISHED）
	AnnotationsCompleted int        `json:"annotations_completed"` // 完成的标注对象数
	ValidCount           int        `json:"valid_count"`           // 检收通过的对象数
	ReworkRequired       int        `json:"rework_required"`       // 返工次数
	AnnotatorID          string     `json:"annotator_id"`          // 标注员ID
	AnnotatorName        string     `json:"annotator_name"`        // 标注员姓名
	CheckerID            string     `json:"checker_id"`            // 检收员ID
	CheckerName          string     `json:"checker_name"`          // 检收员姓名
	WorkDate             *time.Time `json:"work_date"`             // 标注完成日期，解析失败为null
	ReviewDate           *time.Time `json:"review_date"`           // 检收完成日期，null表示待检收
	TimeSpentMinutes     int        `json:"time_spent_minutes"`    // 该行记录的工时（分钟）
}

// PendingReview 判断该行是否处于待检收状态（已产出但尚未检收）
func (r *TaskRecord) PendingReview() bool {
	return r.AnnotationsCompleted > 0 && r.ReviewDate == nil
}

// ProjectConfig 流水线配置，每次仪表盘计算请求传入一次，计算过程中不可变
type ProjectConfig struct {
	TotalDataQty      int       `json:"total_data_qty"`      // 项目目标总量
	OpenDate          time.Time `json:"open_date"`           // 项目开始日期
	TargetEndDate     time.Time `json:"target_end_date"`     // 目标结束日期
	DailyWorkTarget   int       `json:"daily_work_target"`   // 每日标注目标量
	DailyReviewTarget int       `json:"daily_review_target"` // 每日检收目标量
	WorkUnitPrice     float64   `json:"work_unit_price"`     // 标注单价
	ReviewUnitPrice   float64   `json:"review_unit_price"`   // 检收单价
}

// ActiveDays 项目活跃天数（两端含）
func (c *ProjectConfig) ActiveDays() int {
	return int(c.TargetEndDate.Sub(c.OpenDate).Hours()/24) + 1
}

// Validate 校验配置的逻辑合法性，非法配置在任何计算之前返回用户可读错误
func (c *ProjectConfig) Validate() error {
	if c.OpenDate.IsZero() || c.TargetEndDate.IsZero() {
		return fmt.Errorf("开始日期和目标结束日期不能为空")
	}
	if c.OpenDate.After(c.TargetEndDate) {
		return fmt.Errorf("开始日期 %s 晚于目标结束日期 %s，请检查日期范围",
			c.OpenDate.Format("2006-01-02"), c.TargetEndDate.Format("2006-01-02"))
	}
	if c.TotalDataQty <= 0 {
		return fmt.Errorf("项目目标总量必须大于0")
	}
	if c.DailyWorkTarget < 0 || c.DailyReviewTarget < 0 {
		return fmt.Errorf("每日目标量不能为负数")
	}
	if c.WorkUnitPrice < 0 || c.ReviewUnitPrice < 0 {
		return fmt.Errorf("单价不能为负数")
	}
	return nil
}

// IngestSummary 导入摘要，上传完成后返回给前端
type IngestSummary struct {
	TotalRows       int       `json:"total_rows"`       // 规范化后的总行数
	CoercedFields   int       `json:"coerced_fields"`   // 被静默兜底的单元格数（数字转0、日期置空）
	NullWorkDates   int       `json:"null_work_dates"`  // 作业日期无法解析的行数
	QualityWarnings []string  `json:"quality_warnings"` // 数据质量警告（如 valid_count 超过完成数）
	SourceFormat    string    `json:"source_format"`    // 来源格式: csv / xlsx
	IngestedAt      time.Time `json:"ingested_at"`      // 导入时间
}

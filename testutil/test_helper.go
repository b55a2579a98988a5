/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数，提供任务记录工厂与日期构造
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference dev_docs/requirements.md
 * @stateFlow 测试数据创建 -> 测试执行
 * @rules 提供可重用的测试工具，确保测试数据的一致性
 * @dependencies time, annotation-metrics-service/service/models
 * @refs service/metrics, service/ingest
 */

package testutil

import (
	"time"

	"annotation-metrics-service/service/models"
)

// Date 构造UTC零点日期
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DatePtr 构造UTC零点日期指针
func DatePtr(year int, month time.Month, day int) *time.Time {
	d := Date(year, month, day)
	return &d
}

// RecordOption 任务记录工厂的可选项
type RecordOption func(*models.TaskRecord)

// NewTaskRecord 创建一条带合理默认值的任务记录
func NewTaskRecord(taskID string, opts ...RecordOption) models.TaskRecord {
	rec := models.TaskRecord{
		TaskID:               taskID,
		ProjectID:            "PRJ001",
		Status:               "완료",
		AnnotationsCompleted: 10,
		ValidCount:           9,
		AnnotatorID:          "ANN001",
		AnnotatorName:        "김민수",
		CheckerID:            "CHK001",
		CheckerName:          "이영희",
		WorkDate:             DatePtr(2025, 8, 4),
		ReviewDate:           DatePtr(2025, 8, 5),
		TimeSpentMinutes:     120,
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

// WithWorkDate 设置作业日期
func WithWorkDate(d *time.Time) RecordOption {
	return func(r *models.TaskRecord) { r.WorkDate = d }
}

// WithReviewDate 设置检收日期
func WithReviewDate(d *time.Time) RecordOption {
	return func(r *models.TaskRecord) { r.ReviewDate = d }
}

// WithAnnotator 设置标注员
func WithAnnotator(id, name string) RecordOption {
	return func(r *models.TaskRecord) {
		r.AnnotatorID = id
		r.AnnotatorName = name
	}
}

// WithChecker 设置检收员
func WithChecker(id, name string) RecordOption {
	return func(r *models.TaskRecord) {
		r.CheckerID = id
		r.CheckerName = name
	}
}

// WithCounts 设置完成/有效/返工计数
func WithCounts(completed, valid, rework int) RecordOption {
	return func(r *models.TaskRecord) {
		r.AnnotationsCompleted = completed
		r.ValidCount = valid
		r.ReworkRequired = rework
	}
}

// WithMinutes 设置工时分钟数
func WithMinutes(minutes int) RecordOption {
	return func(r *models.TaskRecord) { r.TimeSpentMinutes = minutes }
}

// DefaultConfig 构造一份跨三周窗口的项目配置
func DefaultConfig() *models.ProjectConfig {
	return &models.ProjectConfig{
		TotalDataQty:      100,
		OpenDate:          Date(2025, 8, 4),  // 周一
		TargetEndDate:     Date(2025, 8, 24), // 跨三个整周
		DailyWorkTarget:   10,
		DailyReviewTarget: 8,
		WorkUnitPrice:     100,
		ReviewUnitPrice:   50,
	}
}

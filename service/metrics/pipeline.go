/*
 * @module service/metrics/pipeline
 * @description 指标流水线入口，串联时间窗口过滤、项目KPI、周桶与人员绩效聚合
 * @architecture 分层架构 - 业务服务层，纯函数式单遍批计算
 * @documentReference dev_docs/requirements.md
 * @stateFlow 配置校验 -> 窗口过滤 -> KPI -> 周桶 -> 人员聚合 -> 聚合结果
 * @rules 每次请求整体重算，不保留任何跨请求状态；today在流水线入口读取一次
 * @dependencies annotation-metrics-service/service/models
 * @refs api/controllers/dashboard_controller.go
 */

package metrics

import (
	"log/slog"
	"time"

	"annotation-metrics-service/service/models"
)

// Pipeline 指标流水线。时钟以函数注入，便于测试固定today。
type Pipeline struct {
	now func() time.Time
}

// NewPipeline 创建使用系统时钟的流水线
func NewPipeline() *Pipeline {
	return &Pipeline{now: time.Now}
}

// NewPipelineWithClock 创建使用指定时钟的流水线
func NewPipelineWithClock(now func() time.Time) *Pipeline {
	return &Pipeline{now: now}
}

// Run 对规范化后的记录集执行一次完整重算。
// 配置非法时在任何计算之前返回错误，由调用方转为用户可见提示。
func (p *Pipeline) Run(records []models.TaskRecord, cfg *models.ProjectConfig) (*models.DashboardResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	today := dateOnly(p.now())
	filtered, droppedNull := FilterWindow(records, cfg)

	result := &models.DashboardResult{
		KPI:             CalculateKPI(filtered, cfg, today),
		Weekly:          BucketWeekly(filtered, cfg),
		FilteredRows:    len(filtered),
		DroppedNullDate: droppedNull,
		GeneratedAt:     p.now(),
	}

	result.Workers = AggregateWorkers(filtered, cfg)
	result.Reviewers = AggregateReviewers(filtered, cfg)
	result.WorkerSummary = SummarizeWorkers(result.Workers, cfg)
	result.ReviewerSummary = SummarizeReviewers(result.Reviewers, cfg)

	slog.Info("流水线重算完成",
		"filtered_rows", result.FilteredRows,
		"dropped_null_date", droppedNull,
		"workers", len(result.Workers),
		"reviewers", len(result.Reviewers))

	return result, nil
}

// FilterWindow 时间窗口过滤：保留work_date落在[open_date, target_end_date]（两端含）的行。
// work_date为null的行无法按日期归桶，被过滤剔除并单独计数。
func FilterWindow(records []models.TaskRecord, cfg *models.ProjectConfig) ([]models.TaskRecord, int) {
	filtered := make([]models.TaskRecord, 0, len(records))
	droppedNull := 0
	for _, rec := range records {
		if rec.WorkDate == nil {
			droppedNull++
			continue
		}
		if rec.WorkDate.Before(cfg.OpenDate) || rec.WorkDate.After(cfg.TargetEndDate) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered, droppedNull
}

// dateOnly 截断到日，统一UTC零点
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween from到to的自然日差，to早于from时为负
func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

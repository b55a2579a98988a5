/*
 * @module service/metrics/kpi
 * @description 项目级KPI计算，按当前日均完成量做线性外推的一阶预测
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 过滤后记录集 + 项目配置 + today -> KPI结果
 * @rules 剩余量与剩余天数不截断，负值本身是超额/逾期信号；所有除法有零保护
 * @dependencies annotation-metrics-service/service/models
 * @refs service/metrics/pipeline.go
 */

package metrics

import (
	"time"

	"annotation-metrics-service/service/models"
)

// CalculateKPI 计算项目级进度指标。today由流水线入口传入，整个计算过程只读取一次。
func CalculateKPI(filtered []models.TaskRecord, cfg *models.ProjectConfig, today time.Time) models.ProjectKPI {
	seen := make(map[string]struct{}, len(filtered))
	for _, rec := range filtered {
		seen[rec.TaskID] = struct{}{}
	}
	completed := len(seen)

	elapsed := daysBetween(cfg.OpenDate, today) + 1
	if elapsed < 1 {
		elapsed = 1
	}

	dailyAvg := float64(completed) / float64(elapsed)
	activeDays := cfg.ActiveDays()
	predictedTotal := dailyAvg * float64(activeDays)

	kpi := models.ProjectKPI{
		CompletedQty:   completed,
		RemainingQty:   cfg.TotalDataQty - completed,
		RemainingDays:  daysBetween(today, cfg.TargetEndDate),
		ElapsedDays:    elapsed,
		DailyAvg:       dailyAvg,
		PredictedTotal: predictedTotal,
	}

	if cfg.TotalDataQty > 0 {
		kpi.ProgressPct = float64(completed) / float64(cfg.TotalDataQty)
		kpi.PredictedPct = predictedTotal / float64(cfg.TotalDataQty)
	}

	return kpi
}

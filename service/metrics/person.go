/*
 * @module service/metrics/person
 * @description 人员绩效聚合，标注员与检收员两套同构统计及异常参与者判定
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 过滤后记录集 -> 按人分组累加 -> 比率指标 -> 异常判定 -> 汇总行
 * @rules 异常判定是独立纯谓词，阈值改动不触碰聚合代码；工时口径在结果中显式标注
 * @dependencies annotation-metrics-service/service/models
 * @refs service/metrics/pipeline.go
 */

package metrics

import (
	"sort"

	"annotation-metrics-service/service/models"
)

// 异常参与者判定阈值。比率阈值对标注员为返工率、检收员为误检率。
const (
	QualityRateThreshold  = 0.3
	ActivityRateThreshold = 0.5
)

// 汇总行标签，沿用生产端报表用语
const (
	SummaryLabelAll    = "전체 평균" // 全体平均
	SummaryLabelActive = "활성 평균" // 剔除异常后的活跃平均
)

// Abnormal 异常参与者判定谓词：质量比率（返工率/误检率）达到阈值，
// 或活跃率不高于阈值，即判定为异常。两侧边界均为闭区间。
func Abnormal(qualityRate, activityRate float64) bool {
	return qualityRate >= QualityRateThreshold || activityRate <= ActivityRateThreshold
}

// personAccumulator 按人累加的中间量
type personAccumulator struct {
	id, name  string
	completed int
	valid     int
	rework    int
	minutes   int
	rows      int
}

// AggregateWorkers 标注员绩效聚合，按annotator_id分组。
// 标注员工时始终来自time_spent_minutes汇总。
func AggregateWorkers(filtered []models.TaskRecord, cfg *models.ProjectConfig) []models.PersonStats {
	groups := make(map[string]*personAccumulator)
	for _, rec := range filtered {
		if rec.AnnotatorID == "" && rec.AnnotatorName == "" {
			continue
		}
		acc := groups[rec.AnnotatorID]
		if acc == nil {
			acc = &personAccumulator{id: rec.AnnotatorID, name: rec.AnnotatorName}
			groups[rec.AnnotatorID] = acc
		}
		acc.completed += rec.AnnotationsCompleted
		acc.rework += rec.ReworkRequired
		acc.minutes += rec.TimeSpentMinutes
		acc.rows++
	}

	stats := make([]models.PersonStats, 0, len(groups))
	for _, acc := range groups {
		hours := float64(acc.minutes) / 60.0
		s := models.PersonStats{
			PersonID:     acc.id,
			PersonName:   acc.name,
			Completed:    acc.completed,
			ReworkSum:    acc.rework,
			Hours:        hours,
			HoursBasis:   models.HoursBasisMinutes,
			HourlyRate:   hourlyRate(acc.completed, hours, cfg.WorkUnitPrice),
			QualityRate:  safeRate(acc.rework, acc.completed),
			ActivityRate: activityRate(hours, cfg.ActiveDays()),
		}
		s.Abnormal = Abnormal(s.QualityRate, s.ActivityRate)
		stats = append(stats, s)
	}

	sortStats(stats)
	return stats
}

// AggregateReviewers 检收员绩效聚合，按checker_id分组，只统计已检收的行。
// 有工时数据时按分钟汇总，否则退回按检收行数的代理口径并在结果中标注。
func AggregateReviewers(filtered []models.TaskRecord, cfg *models.ProjectConfig) []models.PersonStats {
	groups := make(map[string]*personAccumulator)
	for _, rec := range filtered {
		if rec.ReviewDate == nil {
			continue
		}
		if rec.CheckerID == "" && rec.CheckerName == "" {
			continue
		}
		acc := groups[rec.CheckerID]
		if acc == nil {
			acc = &personAccumulator{id: rec.CheckerID, name: rec.CheckerName}
			groups[rec.CheckerID] = acc
		}
		acc.completed += rec.AnnotationsCompleted
		acc.valid += rec.ValidCount
		acc.minutes += rec.TimeSpentMinutes
		acc.rows++
	}

	stats := make([]models.PersonStats, 0, len(groups))
	for _, acc := range groups {
		hours := float64(acc.minutes) / 60.0
		basis := models.HoursBasisMinutes
		if acc.minutes == 0 {
			hours = float64(acc.rows)
			basis = models.HoursBasisCountProxy
		}
		s := models.PersonStats{
			PersonID:     acc.id,
			PersonName:   acc.name,
			Completed:    acc.completed,
			ValidCount:   acc.valid,
			Hours:        hours,
			HoursBasis:   basis,
			HourlyRate:   hourlyRate(acc.completed, hours, cfg.ReviewUnitPrice),
			QualityRate:  safeRate(acc.completed-acc.valid, acc.completed),
			ActivityRate: activityRate(hours, cfg.ActiveDays()),
		}
		s.Abnormal = Abnormal(s.QualityRate, s.ActivityRate)
		stats = append(stats, s)
	}

	sortStats(stats)
	return stats
}

// SummarizeWorkers 标注员汇总行：全体平均 + 剔除异常后的活跃平均
func SummarizeWorkers(workers []models.PersonStats, cfg *models.ProjectConfig) []models.PersonSummary {
	numerator := func(s models.PersonStats) int { return s.ReworkSum }
	return []models.PersonSummary{
		summarize(SummaryLabelAll, workers, cfg, cfg.WorkUnitPrice, numerator, false),
		summarize(SummaryLabelActive, workers, cfg, cfg.WorkUnitPrice, numerator, true),
	}
}

// SummarizeReviewers 检收员汇总行：全体平均 + 剔除异常后的活跃平均
func SummarizeReviewers(reviewers []models.PersonStats, cfg *models.ProjectConfig) []models.PersonSummary {
	numerator := func(s models.PersonStats) int { return s.Completed - s.ValidCount }
	return []models.PersonSummary{
		summarize(SummaryLabelAll, reviewers, cfg, cfg.ReviewUnitPrice, numerator, false),
		summarize(SummaryLabelActive, reviewers, cfg, cfg.ReviewUnitPrice, numerator, true),
	}
}

// summarize 对人员集合套用与个人相同的比率公式。
// 活跃率按合计工时对人均容量（活跃天数×8小时×人数）计算。
func summarize(label string, persons []models.PersonStats, cfg *models.ProjectConfig,
	unitPrice float64, qualityNumerator func(models.PersonStats) int, activeOnly bool) models.PersonSummary {

	summary := models.PersonSummary{Label: label}
	numerator := 0
	for _, s := range persons {
		if activeOnly && s.Abnormal {
			continue
		}
		summary.Persons++
		summary.Completed += s.Completed
		summary.Hours += s.Hours
		numerator += qualityNumerator(s)
	}

	summary.HourlyRate = hourlyRate(summary.Completed, summary.Hours, unitPrice)
	summary.QualityRate = safeRate(numerator, summary.Completed)
	if summary.Persons > 0 {
		summary.ActivityRate = summary.Hours / (float64(cfg.ActiveDays()) * 8 * float64(summary.Persons))
	}
	return summary
}

// hourlyRate 时薪 = 量/工时 × 单价，工时为0时报0
func hourlyRate(count int, hours, unitPrice float64) float64 {
	if hours <= 0 {
		return 0
	}
	return float64(count) / hours * unitPrice
}

// safeRate 比率 = 分子/分母，分母为0时报0，下限截断到0
func safeRate(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	rate := float64(numerator) / float64(denominator)
	if rate < 0 {
		return 0
	}
	return rate
}

// activityRate 活跃率 = 工时 / (活跃天数 × 8小时)
func activityRate(hours float64, activeDays int) float64 {
	capacity := float64(activeDays) * 8
	if capacity <= 0 {
		return 0
	}
	return hours / capacity
}

// sortStats 按完成量降序、同量按ID升序，保证输出稳定
func sortStats(stats []models.PersonStats) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Completed != stats[j].Completed {
			return stats[i].Completed > stats[j].Completed
		}
		return stats[i].PersonID < stats[j].PersonID
	})
}

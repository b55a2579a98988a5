/*
 * @module service/metrics/weekly
 * @description 周桶聚合，作业/检收两条流的实际量与目标量对比及待检收积压
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 项目窗口逐日展开 -> ISO周归桶 -> 实际量/目标量/积压累加
 * @rules 周键采用ISO日历周保证跨月确定性；边界不满整周的桶按窗口内实际天数计目标
 * @dependencies annotation-metrics-service/service/models
 * @refs service/metrics/pipeline.go
 */

package metrics

import (
	"fmt"
	"time"

	"annotation-metrics-service/service/models"
)

// isoWeekLabel ISO日历周标签，如 2025-W33
func isoWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// BucketWeekly 将过滤后的记录集按ISO周归桶。
// 作业实际量与待检收积压按work_date归桶；检收实际量按review_date归桶，
// 检收日期落在窗口外的对象数不归入任何桶，单独对账返回。
func BucketWeekly(filtered []models.TaskRecord, cfg *models.ProjectConfig) models.WeeklyResult {
	// 窗口逐日展开，确定桶的顺序与各桶落在窗口内的天数
	var order []string
	days := make(map[string]int)
	for d := dateOnly(cfg.OpenDate); !d.After(cfg.TargetEndDate); d = d.AddDate(0, 0, 1) {
		label := isoWeekLabel(d)
		if _, ok := days[label]; !ok {
			order = append(order, label)
		}
		days[label]++
	}

	index := make(map[string]*models.WeeklyBucket, len(order))
	buckets := make([]models.WeeklyBucket, len(order))
	for i, label := range order {
		buckets[i] = models.WeeklyBucket{
			Week:         label,
			Days:         days[label],
			WorkTarget:   cfg.DailyWorkTarget * days[label],
			ReviewTarget: cfg.DailyReviewTarget * days[label],
		}
		index[label] = &buckets[i]
	}

	result := models.WeeklyResult{}
	for _, rec := range filtered {
		// 窗口过滤保证work_date非null且落在某个桶内
		workBucket := index[isoWeekLabel(*rec.WorkDate)]
		workBucket.WorkActual += rec.AnnotationsCompleted
		if rec.PendingReview() {
			workBucket.ReviewWait++
		}

		if rec.ReviewDate != nil {
			if reviewBucket, ok := index[isoWeekLabel(*rec.ReviewDate)]; ok {
				reviewBucket.ReviewActual += rec.AnnotationsCompleted
			} else {
				result.ReviewOutsideWindow += rec.AnnotationsCompleted
			}
		}
	}

	for i := range buckets {
		buckets[i].WorkAchievement = achievement(buckets[i].WorkActual, buckets[i].WorkTarget)
		buckets[i].ReviewAchievement = achievement(buckets[i].ReviewActual, buckets[i].ReviewTarget)
	}

	result.Buckets = buckets
	return result
}

// achievement 达成率，目标为0时报0而不是异常
func achievement(actual, target int) float64 {
	if target <= 0 {
		return 0
	}
	return float64(actual) / float64(target)
}

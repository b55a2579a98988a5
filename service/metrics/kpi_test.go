/*
 * @module service/metrics/kpi_test
 * @description 项目KPI计算单元测试，覆盖线性外推预测与零值保护
 * @architecture 测试层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 构造记录集 -> KPI计算 -> 结果断言
 * @rules 负的剩余量/剩余天数不截断，除零场景必须返回0而不是异常
 * @dependencies testing, testify
 * @refs kpi.go
 */

package metrics

import (
	"fmt"
	"testing"

	"annotation-metrics-service/service/models"
	"annotation-metrics-service/testutil"

	"github.com/stretchr/testify/assert"
)

func TestCalculateKPI_LinearForecast(t *testing.T) {
	openDate := testutil.Date(2025, 8, 1)
	cfg := &models.ProjectConfig{
		TotalDataQty:  100,
		OpenDate:      openDate,
		TargetEndDate: openDate.AddDate(0, 0, 20),
	}
	today := openDate.AddDate(0, 0, 10)

	// 40个去重task_id
	records := make([]models.TaskRecord, 0, 40)
	for i := 0; i < 40; i++ {
		records = append(records, testutil.NewTaskRecord(
			fmt.Sprintf("TASK%04d", i),
			testutil.WithWorkDate(testutil.DatePtr(2025, 8, 1+i%10)),
		))
	}

	kpi := CalculateKPI(records, cfg, today)

	assert.Equal(t, 40, kpi.CompletedQty)
	assert.Equal(t, 60, kpi.RemainingQty)
	assert.Equal(t, 11, kpi.ElapsedDays)
	assert.Equal(t, 10, kpi.RemainingDays)
	assert.InDelta(t, 0.40, kpi.ProgressPct, 1e-9)
	assert.InDelta(t, 40.0/11.0, kpi.DailyAvg, 1e-9)
	assert.InDelta(t, 40.0/11.0*21.0, kpi.PredictedTotal, 1e-9) // ≈76.36
	assert.InDelta(t, 40.0/11.0*21.0/100.0, kpi.PredictedPct, 1e-9)
}

func TestCalculateKPI_DuplicateTaskIDsCountedOnce(t *testing.T) {
	cfg := testutil.DefaultConfig()
	records := []models.TaskRecord{
		testutil.NewTaskRecord("TASK0001"),
		testutil.NewTaskRecord("TASK0001"),
		testutil.NewTaskRecord("TASK0002"),
	}

	kpi := CalculateKPI(records, cfg, testutil.Date(2025, 8, 10))
	assert.Equal(t, 2, kpi.CompletedQty)
}

func TestCalculateKPI_OverTargetNotClamped(t *testing.T) {
	cfg := testutil.DefaultConfig()
	cfg.TotalDataQty = 2

	records := []models.TaskRecord{
		testutil.NewTaskRecord("TASK0001"),
		testutil.NewTaskRecord("TASK0002"),
		testutil.NewTaskRecord("TASK0003"),
	}

	kpi := CalculateKPI(records, cfg, testutil.Date(2025, 8, 10))
	assert.Equal(t, -1, kpi.RemainingQty)
	assert.InDelta(t, 1.5, kpi.ProgressPct, 1e-9)
}

func TestCalculateKPI_PastDeadlineNegativeRemainingDays(t *testing.T) {
	cfg := testutil.DefaultConfig()

	kpi := CalculateKPI(nil, cfg, cfg.TargetEndDate.AddDate(0, 0, 5))
	assert.Equal(t, -5, kpi.RemainingDays)
}

func TestCalculateKPI_ZeroTotalQtyGuard(t *testing.T) {
	cfg := testutil.DefaultConfig()
	cfg.TotalDataQty = 0

	kpi := CalculateKPI([]models.TaskRecord{testutil.NewTaskRecord("TASK0001")}, cfg, testutil.Date(2025, 8, 10))
	assert.Equal(t, 0.0, kpi.ProgressPct)
	assert.Equal(t, 0.0, kpi.PredictedPct)
}

func TestCalculateKPI_ElapsedDaysFlooredAtOne(t *testing.T) {
	cfg := testutil.DefaultConfig()

	// today早于open_date时，已经过天数保底为1避免除零
	kpi := CalculateKPI(nil, cfg, cfg.OpenDate.AddDate(0, 0, -3))
	assert.Equal(t, 1, kpi.ElapsedDays)
}

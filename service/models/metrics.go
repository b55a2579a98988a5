/*
 * @module service/models/metrics
 * @description 指标模型定义，包含项目KPI、周桶、人员绩效和仪表盘聚合结果
 * @architecture 分层架构 - 数据模型层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 过滤后的记录集 -> 单遍聚合 -> 指标结果
 * @rules 所有指标在每次请求时整体重算，不保留增量状态
 * @dependencies time
 * @refs service/metrics
 */

package models

import "time"

// ProjectKPI 项目级进度指标，基于线性外推的一阶预测
type ProjectKPI struct {
	CompletedQty   int     `json:"completed_qty"`   // 去重task_id计数
	RemainingQty   int     `json:"remaining_qty"`   // 目标量减去完成量，超额时为负
	ProgressPct    float64 `json:"progress_pct"`    // 完成比例，可超过1.0
	RemainingDays  int     `json:"remaining_days"`  // 距目标结束天数，逾期为负
	ElapsedDays    int     `json:"elapsed_days"`    // 已经过天数，最小为1
	DailyAvg       float64 `json:"daily_avg"`       // 日均完成量
	PredictedTotal float64 `json:"predicted_total"` // 按当前日均推算到期完成量
	PredictedPct   float64 `json:"predicted_pct"`   // 推算完成比例
}

// WeeklyBucket 周桶，作业/检收两条流各自的实际值与目标值对比
type WeeklyBucket struct {
	Week            string  `json:"week"`             // ISO周标签，如 2025-W33
	Days            int     `json:"days"`             // 该周落在项目窗口内的自然日数
	WorkActual      int     `json:"work_actual"`      // 实际标注对象数（按work_date归桶）
	WorkTarget      int     `json:"work_target"`      // 标注目标 = 每日目标 × 窗口内天数
	WorkAchievement float64 `json:"work_achievement"` // 标注达成率，目标为0时报0

	ReviewActual      int     `json:"review_actual"`      // 实际检收对象数（按review_date归桶）
	ReviewTarget      int     `json:"review_target"`      // 检收目标
	ReviewAchievement float64 `json:"review_achievement"` // 检收达成率

	ReviewWait int `json:"review_wait"` // 待检收积压行数（按work_date归桶）
}

// WeeklyResult 周桶聚合结果
type WeeklyResult struct {
	Buckets []WeeklyBucket `json:"buckets"`
	// 已检收但检收日期落在项目窗口之外的对象数，不计入任何周桶，单独对账
	ReviewOutsideWindow int `json:"review_outside_window"`
}

// HoursBasis 人员工时的计算口径
const (
	HoursBasisMinutes    = "time_spent_minutes" // 实际记录的分钟数汇总
	HoursBasisCountProxy = "review_count_proxy" // 无工时数据时以检收行数代替
)

// PersonStats 单个标注员或检收员的绩效统计
type PersonStats struct {
	PersonID     string  `json:"person_id"`
	PersonName   string  `json:"person_name"`
	Completed    int     `json:"completed"`     // 标注员：完成对象数；检收员：检收对象数
	ValidCount   int     `json:"valid_count"`   // 检收通过对象数
	ReworkSum    int     `json:"rework_sum"`    // 返工次数合计（仅标注员）
	Hours        float64 `json:"hours"`         // 工时（小时）
	HoursBasis   string  `json:"hours_basis"`   // 工时口径
	HourlyRate   float64 `json:"hourly_rate"`   // 时薪 = 量/工时 × 单价
	QualityRate  float64 `json:"quality_rate"`  // 标注员为返工率，检收员为误检率，下限0
	ActivityRate float64 `json:"activity_rate"` // 工时占8小时工作日容量的比例
	Abnormal     bool    `json:"abnormal"`      // 异常参与者标记
}

// PersonSummary 人员汇总行（全体平均 / 剔除异常后的活跃平均）
type PersonSummary struct {
	Label        string  `json:"label"`         // 전체 평균 / 활성 평균
	Persons      int     `json:"persons"`       // 纳入汇总的人数
	Completed    int     `json:"completed"`     // 合计量
	Hours        float64 `json:"hours"`         // 合计工时
	HourlyRate   float64 `json:"hourly_rate"`   // 按合计量与合计工时计算
	QualityRate  float64 `json:"quality_rate"`  // 按合计量计算
	ActivityRate float64 `json:"activity_rate"` // 按合计工时计算
}

// DashboardResult 一次过滤/配置变更触发的完整重算结果
type DashboardResult struct {
	KPI             ProjectKPI      `json:"kpi"`
	Weekly          WeeklyResult    `json:"weekly"`
	Workers         []PersonStats   `json:"workers"`
	Reviewers       []PersonStats   `json:"reviewers"`
	WorkerSummary   []PersonSummary `json:"worker_summary"`
	ReviewerSummary []PersonSummary `json:"reviewer_summary"`
	FilteredRows    int             `json:"filtered_rows"`    // 窗口过滤后的行数
	DroppedNullDate int             `json:"dropped_null_date"` // 因work_date为空被窗口过滤剔除的行数
	GeneratedAt     time.Time       `json:"generated_at"`
}

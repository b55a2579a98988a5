/*
 * @module service/ingest/prometheus
 * @description 导入链路的Prometheus指标，暴露静默兜底策略的可观测计数
 * @architecture 分层架构 - 可观测性
 * @documentReference dev_docs/requirements.md
 * @stateFlow 规范化过程中累加 -> /metrics 暴露
 * @rules 单元格级的静默兜底必须可以通过计数器观测到
 * @dependencies github.com/prometheus/client_golang
 * @refs service/ingest/normalizer.go, main.go
 */

package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rowsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "annotation_rows_ingested_total",
		Help: "规范化成功的任务记录行数",
	})

	fieldsCoercedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "annotation_fields_coerced_total",
		Help: "转换失败后被静默兜底的单元格数（数字转0、日期置null）",
	})

	datasetsUploadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "annotation_datasets_uploaded_total",
		Help: "成功上传并完成导入的数据集个数",
	})
)

// CountDatasetUploaded 记录一次成功的数据集上传
func CountDatasetUploaded() {
	datasetsUploadedTotal.Inc()
}

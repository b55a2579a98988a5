/*
 * @module api/controllers/metrics_controller
 * @description 仪表盘指标控制器，配置或过滤条件变更时对会话数据执行整体重算
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 逻辑错误（日期倒置、目标总量为0）在计算前返回校验消息
 * @dependencies annotation-metrics-service/service, github.com/go-chi/render
 * @refs api/routes.go, service/metrics
 */

package controllers

import (
	"fmt"
	"net/http"
	"time"

	"annotation-metrics-service/service"
	"annotation-metrics-service/service/metrics"
	"annotation-metrics-service/service/models"
	"annotation-metrics-service/service/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// MetricsController 仪表盘指标控制器
type MetricsController struct {
	store    *session.Store
	pipeline *metrics.Pipeline
}

// NewMetricsController 创建仪表盘指标控制器实例
func NewMetricsController() *MetricsController {
	return &MetricsController{
		store:    service.GlobalSessionStore,
		pipeline: service.GlobalPipeline,
	}
}

// DashboardRequest 仪表盘计算请求，等价于原侧边栏的一组配置项
type DashboardRequest struct {
	TotalDataQty      int     `json:"total_data_qty" example:"10000"`       // 项目目标总量
	OpenDate          string  `json:"open_date" example:"2025-07-01"`       // 项目开始日期
	TargetEndDate     string  `json:"target_end_date" example:"2025-08-31"` // 目标结束日期
	DailyWorkTarget   int     `json:"daily_work_target" example:"300"`      // 每日标注目标量
	DailyReviewTarget int     `json:"daily_review_target" example:"300"`    // 每日检收目标量
	WorkUnitPrice     float64 `json:"work_unit_price" example:"120"`        // 标注单价
	ReviewUnitPrice   float64 `json:"review_unit_price" example:"50"`       // 检收单价
}

// toConfig 解析日期并构造不可变的流水线配置
func (req *DashboardRequest) toConfig() (*models.ProjectConfig, error) {
	openDate, err := time.Parse("2006-01-02", req.OpenDate)
	if err != nil {
		return nil, fmt.Errorf("开始日期格式错误，应为 YYYY-MM-DD: %s", req.OpenDate)
	}
	endDate, err := time.Parse("2006-01-02", req.TargetEndDate)
	if err != nil {
		return nil, fmt.Errorf("目标结束日期格式错误，应为 YYYY-MM-DD: %s", req.TargetEndDate)
	}

	return &models.ProjectConfig{
		TotalDataQty:      req.TotalDataQty,
		OpenDate:          openDate,
		TargetEndDate:     endDate,
		DailyWorkTarget:   req.DailyWorkTarget,
		DailyReviewTarget: req.DailyReviewTarget,
		WorkUnitPrice:     req.WorkUnitPrice,
		ReviewUnitPrice:   req.ReviewUnitPrice,
	}, nil
}

// Dashboard 计算仪表盘指标
// @Summary 计算仪表盘指标
// @Description 按项目配置对会话数据整体重算，返回KPI、周桶、人员绩效与汇总行
// @Tags 仪表盘
// @Accept json
// @Produce json
// @Param session_id path string true "会话ID"
// @Param config body DashboardRequest true "项目配置"
// @Success 200 {object} APIResponse{data=models.DashboardResult} "计算成功"
// @Failure 400 {object} APIResponse "配置校验失败"
// @Failure 404 {object} APIResponse "会话不存在"
// @Router /datasets/{session_id}/dashboard [post]
func (c *MetricsController) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, err := c.store.Get(chi.URLParam(r, "session_id"))
	if err != nil {
		render.JSON(w, r, NotFoundResponse(err.Error(), nil))
		return
	}

	var req DashboardRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse(fmt.Sprintf("请求参数格式错误:%s", err.Error()), nil))
		return
	}

	cfg, err := req.toConfig()
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}

	result, err := c.pipeline.Run(sess.Records, cfg)
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}

	render.JSON(w, r, SuccessResponse("计算成功", result))
}

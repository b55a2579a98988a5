/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference dev_docs/requirements.md
 * @stateFlow 无状态HTTP请求处理，会话数据由service/session托管
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers
 */

package api

import (
	"annotation-metrics-service/api/controllers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 数据集与仪表盘
	r.Route("/datasets", func(r chi.Router) {
		datasetController := controllers.NewDatasetController()
		metricsController := controllers.NewMetricsController()

		// 上传标注记录文件，创建会话
		r.Post("/upload", datasetController.Upload)

		// 配置变更触发的整体重算
		r.Post("/{session_id}/dashboard", metricsController.Dashboard)

		// 过滤结果CSV导出
		r.Get("/{session_id}/export", datasetController.Export)

		// 提前释放会话
		r.Delete("/{session_id}", datasetController.Delete)
	})
}

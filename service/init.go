/*
 * @module service/init
 * @description 服务初始化模块，装配会话存储、规范化器与指标流水线的全局实例
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/requirements.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 确保所有依赖服务正常启动后才提供API服务
 * @dependencies annotation-metrics-service/service/session, annotation-metrics-service/service/metrics
 * @refs main.go, api/routes.go
 */

package service

import (
	"log"
	"os"
	"time"

	"annotation-metrics-service/service/ingest"
	"annotation-metrics-service/service/metrics"
	"annotation-metrics-service/service/session"

	"github.com/spf13/cast"
)

// DefaultSessionTTLMinutes 会话空闲回收时间默认值
const DefaultSessionTTLMinutes = 60

// sessionCleanupSpec 会话清扫周期
const sessionCleanupSpec = "@every 5m"

var (
	GlobalSessionStore *session.Store
	GlobalNormalizer   *ingest.Normalizer
	GlobalPipeline     *metrics.Pipeline
)

func init() {
	ttlMinutes := DefaultSessionTTLMinutes
	if val := os.Getenv("SESSION_TTL_MINUTES"); val != "" {
		if parsed := cast.ToInt(val); parsed > 0 {
			ttlMinutes = parsed
		}
	}

	GlobalSessionStore = session.NewStore(time.Duration(ttlMinutes) * time.Minute)
	GlobalNormalizer = ingest.NewNormalizer(nil)
	GlobalPipeline = metrics.NewPipeline()

	if err := GlobalSessionStore.StartCleanup(sessionCleanupSpec); err != nil {
		log.Fatalf("会话清扫任务启动失败: %v", err)
	}

	log.Printf("服务初始化完成, session_ttl=%dm", ttlMinutes)
}

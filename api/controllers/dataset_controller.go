/*
 * @module api/controllers/dataset_controller
 * @description 数据集API控制器，处理文件上传导入、过滤结果CSV导出与会话删除
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 输入结构错误（缺文件、缺必需列）在计算前返回用户可读消息
 * @dependencies annotation-metrics-service/service, github.com/go-chi/render
 * @refs api/routes.go
 */

package controllers

import (
	"fmt"
	"net/http"
	"time"

	"annotation-metrics-service/service"
	"annotation-metrics-service/service/export"
	"annotation-metrics-service/service/ingest"
	"annotation-metrics-service/service/metrics"
	"annotation-metrics-service/service/models"
	"annotation-metrics-service/service/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// maxUploadBytes 上传文件大小上限
const maxUploadBytes = 64 << 20

// DatasetController 数据集控制器
type DatasetController struct {
	store      *session.Store
	normalizer *ingest.Normalizer
}

// NewDatasetController 创建数据集控制器实例
func NewDatasetController() *DatasetController {
	return &DatasetController{
		store:      service.GlobalSessionStore,
		normalizer: service.GlobalNormalizer,
	}
}

// UploadResponse 上传响应
type UploadResponse struct {
	SessionID string                `json:"session_id"`
	Summary   *models.IngestSummary `json:"summary"`
}

// Upload 上传标注记录文件
// @Summary 上传标注记录文件
// @Description 上传CSV或XLSX格式的标注任务导出文件，完成列映射与类型规范化后创建会话
// @Tags 数据集
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV/XLSX文件"
// @Param sheet formData string false "工作表名，仅XLSX生效，默认第一个工作表"
// @Success 200 {object} APIResponse{data=UploadResponse} "上传成功"
// @Failure 400 {object} APIResponse "文件缺失或表头不完整"
// @Router /datasets/upload [post]
func (c *DatasetController) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		render.JSON(w, r, BadRequestResponse("上传表单解析失败", err))
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		render.JSON(w, r, BadRequestResponse("未找到上传文件，请选择CSV或XLSX文件", nil))
		return
	}
	defer file.Close()

	source := ingest.SourceFor(fileHeader.Filename, r.FormValue("sheet"))
	header, rows, err := source.Read(file)
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}

	records, summary, err := c.normalizer.Normalize(header, rows)
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}
	summary.SourceFormat = sourceFormat(source)

	sess := c.store.Put(records, summary)
	ingest.CountDatasetUploaded()

	render.JSON(w, r, SuccessResponse("数据导入成功", &UploadResponse{
		SessionID: sess.ID,
		Summary:   summary,
	}))
}

// Export 导出过滤后的数据
// @Summary 导出过滤后的数据
// @Description 按项目时间窗口过滤后以规范表头导出CSV，导出结果可原样重新导入
// @Tags 数据集
// @Produce text/csv
// @Param session_id path string true "会话ID"
// @Param open_date query string true "窗口开始日期 YYYY-MM-DD"
// @Param target_end_date query string true "窗口结束日期 YYYY-MM-DD"
// @Success 200 {string} string "CSV内容"
// @Failure 400 {object} APIResponse "日期参数错误"
// @Failure 404 {object} APIResponse "会话不存在"
// @Router /datasets/{session_id}/export [get]
func (c *DatasetController) Export(w http.ResponseWriter, r *http.Request) {
	sess, err := c.store.Get(chi.URLParam(r, "session_id"))
	if err != nil {
		render.JSON(w, r, NotFoundResponse(err.Error(), nil))
		return
	}

	openDate, err := parseDateParam(r, "open_date")
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}
	endDate, err := parseDateParam(r, "target_end_date")
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}
	if openDate.After(endDate) {
		render.JSON(w, r, BadRequestResponse("开始日期晚于结束日期，请检查日期范围", nil))
		return
	}

	cfg := &models.ProjectConfig{OpenDate: openDate, TargetEndDate: endDate}
	filtered, _ := metrics.FilterWindow(sess.Records, cfg)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, export.ExportFilename(time.Now())))

	if err := export.WriteCSV(w, filtered); err != nil {
		render.JSON(w, r, InternalErrorResponse("导出CSV失败", err))
	}
}

// Delete 删除会话
// @Summary 删除会话
// @Description 提前释放一次上传创建的会话及其内存数据
// @Tags 数据集
// @Produce json
// @Param session_id path string true "会话ID"
// @Success 200 {object} APIResponse "删除成功"
// @Router /datasets/{session_id} [delete]
func (c *DatasetController) Delete(w http.ResponseWriter, r *http.Request) {
	c.store.Delete(chi.URLParam(r, "session_id"))
	render.JSON(w, r, SuccessResponse("会话已删除", nil))
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, fmt.Errorf("缺少日期参数 %s", name)
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期参数 %s 格式错误，应为 YYYY-MM-DD", name)
	}
	return t, nil
}

func sourceFormat(source ingest.TableSource) string {
	if _, ok := source.(*ingest.SpreadsheetSource); ok {
		return "xlsx"
	}
	return "csv"
}

/*
 * @module api/controllers/response
 * @description 统一API响应结构与响应构造辅助函数
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 所有预期失败路径均以用户可读消息结束，不向通用错误页抛异常
 * @dependencies net/http
 * @refs api/routes.go
 */

package controllers

import "net/http"

// APIResponse 统一API响应结构
type APIResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"操作成功"`
	Data   interface{} `json:"data,omitempty"`
}

// SuccessResponse 成功响应
func SuccessResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{Status: 0, Msg: msg, Data: data}
}

// BadRequestResponse 请求参数/输入数据错误响应
func BadRequestResponse(msg string, err error) *APIResponse {
	return errorResponse(http.StatusBadRequest, msg, err)
}

// NotFoundResponse 资源不存在响应
func NotFoundResponse(msg string, err error) *APIResponse {
	return errorResponse(http.StatusNotFound, msg, err)
}

// InternalErrorResponse 服务器内部错误响应
func InternalErrorResponse(msg string, err error) *APIResponse {
	return errorResponse(http.StatusInternalServerError, msg, err)
}

func errorResponse(status int, msg string, err error) *APIResponse {
	resp := &APIResponse{Status: status, Msg: msg}
	if err != nil {
		resp.Data = err.Error()
	}
	return resp
}

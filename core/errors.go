package core

import "fmt"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Source 错误：MALFORMED_RECORD（源帧格式违约，致命）
//   - Store 错误：NOT_FOUND
//   - Pipeline 错误：INTERNAL_ERROR（批重试后仍失败）
//   - 其他领域错误
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "MALFORMED_RECORD"）
	Message string // 错误消息
	Module  string // 模块名称（如 "source", "pipeline", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf 创建带格式化消息的领域错误。
func NewDomainErrorf(module, code, format string, args ...any) *DomainError {
	return NewDomainError(module, code, fmt.Sprintf(format, args...))
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound        = "NOT_FOUND"        // 资源不存在
	ErrorCodeInvalidInput    = "INVALID_INPUT"    // 输入无效
	ErrorCodeInternalError   = "INTERNAL_ERROR"   // 内部错误
	ErrorCodeMalformedRecord = "MALFORMED_RECORD" // 源记录帧格式违约（致命）
)

// 模块名称常量
const (
	ModuleSource   = "source"   // 输入源模块
	ModuleCriteria = "criteria" // 判据模块
	ModulePipeline = "pipeline" // 流水线模块
	ModuleStore    = "store"    // 存储模块
	ModuleSink     = "sink"     // 输出汇模块
)

// ErrStoreNotFound 是 Store 键不存在的哨兵错误。
var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsMalformedRecord 检查错误是否为源帧格式违约。
// 这类错误表示上游源违反了输入流契约，整个运行应当中止。
func IsMalformedRecord(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeMalformedRecord
	}
	return false
}

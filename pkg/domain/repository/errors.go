package repository

import "errors"

var (
	// ErrNotFound 实体在存储中不存在。
	ErrNotFound = errors.New("not found")
	// ErrInvalidID 传入的 ID 不是合法的文档 ID。
	ErrInvalidID = errors.New("invalid id")
	// ErrConflict 唯一性冲突（如分类名、邮箱重复）。
	ErrConflict = errors.New("conflict")
)

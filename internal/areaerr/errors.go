// 包 areaerr：批处理过程中的错误种类
// 背景：解析与读写失败对整次运行是致命的；缺失上级仅需暴露，不中断解析
package areaerr

import (
	"errors"
	"fmt"

	"areacodes/internal/areacode"
)

var (
	// ErrOutOfOrder：快照年份未严格递增
	ErrOutOfOrder = errors.New("snapshot year out of order")
	// ErrSealed：台账已封存，禁止继续合并
	ErrSealed = errors.New("ledger sealed")
	// ErrNotSealed：解析要求台账已停止写入
	ErrNotSealed = errors.New("ledger still accepting snapshots")
)

// ParseError：快照行无法得到六位数字代码或名称
type ParseError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %s: %q", e.Source, e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("parse %s: %s: %q", e.Source, e.Reason, e.Text)
}

// MissingParentError：代码隐含的上级在台账中不存在
type MissingParentError struct {
	Code   areacode.Code
	Parent areacode.Code
	Level  areacode.Level
}

func (e *MissingParentError) Error() string {
	return fmt.Sprintf("missing %s parent %s for %s", e.Level, e.Parent, e.Code)
}

// IOError：读取快照或写出报表失败
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string { return e.Op + " " + e.Path + ": " + e.Err.Error() }

func (e *IOError) Unwrap() error { return e.Err }

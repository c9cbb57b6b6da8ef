// 包 report：将解析结果写为 CSV 报表与台账文本转储
package report

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"areacodes/internal/areaerr"
	"areacodes/internal/logger"
	"areacodes/internal/metrics"
)

// WriteFunc：向 w 写入报表内容并返回数据行数（不含表头）
type WriteFunc func(w io.Writer) (int, error)

// Output：一份待写出的报表
type Output struct {
	Path   string
	Report string
	Write  WriteFunc
}

// Pending：已写完并 Sync 的同目录临时文件，等待 Commit
type Pending struct {
	path   string
	tmp    string
	report string
	rows   int
}

// Stage：写入同目录临时文件并 Sync，不触碰目标路径
// 约束：失败时删除临时文件；错误统一包装为 IOError
func Stage(out Output) (*Pending, error) {
	f, err := os.CreateTemp(filepath.Dir(out.Path), "."+filepath.Base(out.Path)+".tmp-*")
	if err != nil {
		return nil, &areaerr.IOError{Op: "create", Path: out.Path, Err: err}
	}
	tmp := f.Name()
	fail := func(op string, err error) (*Pending, error) {
		_ = f.Close()
		_ = os.Remove(tmp)
		return nil, &areaerr.IOError{Op: op, Path: out.Path, Err: err}
	}

	bw := bufio.NewWriterSize(f, 1<<16)
	rows, err := out.Write(bw)
	if err != nil {
		return fail("write", err)
	}
	if err := bw.Flush(); err != nil {
		return fail("write", err)
	}
	if err := f.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return nil, &areaerr.IOError{Op: "close", Path: out.Path, Err: err}
	}
	return &Pending{path: out.Path, tmp: tmp, report: out.Report, rows: rows}, nil
}

// Commit：Rename 到目标路径
func (p *Pending) Commit() error {
	if err := os.Rename(p.tmp, p.path); err != nil {
		_ = os.Remove(p.tmp)
		return &areaerr.IOError{Op: "rename", Path: p.path, Err: err}
	}
	metrics.ReportRowsTotal.WithLabelValues(p.report).Add(float64(p.rows))
	logger.L().Info("report_written", "report", p.report, "path", p.path, "rows", p.rows)
	return nil
}

// Abort：删除临时文件
func (p *Pending) Abort() { _ = os.Remove(p.tmp) }

// WriteAll：全部报表暂存成功后才依次 Rename
// 约束：任一报表写入失败时删除所有已暂存的临时文件，目标路径全部保持原样
func WriteAll(outs ...Output) error {
	staged := make([]*Pending, 0, len(outs))
	for _, out := range outs {
		p, err := Stage(out)
		if err != nil {
			for _, s := range staged {
				s.Abort()
			}
			return err
		}
		staged = append(staged, p)
	}
	for i, p := range staged {
		if err := p.Commit(); err != nil {
			for _, rest := range staged[i+1:] {
				rest.Abort()
			}
			return err
		}
	}
	return nil
}

// WriteAtomic：单份报表的 WriteAll
func WriteAtomic(path, report string, fn WriteFunc) error {
	return WriteAll(Output{Path: path, Report: report, Write: fn})
}

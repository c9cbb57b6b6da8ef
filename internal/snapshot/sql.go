package snapshot

import (
	"context"
	"strconv"

	"areacodes/internal/areacode"
	"areacodes/internal/areaerr"
	"areacodes/internal/store"
)

// SQLSource：从 _area_snapshots 暂存表读取快照
type SQLSource struct {
	Store *store.Store
}

func (s *SQLSource) Years(ctx context.Context) ([]int, error) {
	years, err := s.Store.Years(ctx)
	if err != nil {
		return nil, &areaerr.IOError{Op: "query", Path: "_area_snapshots", Err: err}
	}
	return years, nil
}

func (s *SQLSource) Load(ctx context.Context, year int) (*Snapshot, error) {
	src := "_area_snapshots@" + strconv.Itoa(year)
	snap := New(year, src)
	var perr error
	err := s.Store.EachRow(ctx, year, func(r store.Row) error {
		code, ok := areacode.Parse(strconv.FormatInt(r.Code, 10))
		if !ok {
			perr = &areaerr.ParseError{Source: src, Text: strconv.FormatInt(r.Code, 10), Reason: "invalid code"}
			return perr
		}
		if r.Name == "" {
			perr = &areaerr.ParseError{Source: src, Text: code.String(), Reason: "empty name"}
			return perr
		}
		snap.Put(code, r.Name)
		return nil
	})
	if perr != nil {
		return nil, perr
	}
	if err != nil {
		return nil, &areaerr.IOError{Op: "query", Path: src, Err: err}
	}
	return snap, nil
}

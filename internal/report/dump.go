package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"areacodes/internal/ledger"
)

// Dump：台账原样转储，每个代码一行 code\t[names]\t[times]，代码升序
func Dump(l *ledger.Ledger) WriteFunc {
	return func(w io.Writer) (int, error) {
		codes := l.Codes()
		for _, c := range codes {
			rec, _ := l.Get(c)
			times := make([]string, len(rec.Entries))
			for i, e := range rec.Entries {
				times[i] = strconv.Itoa(e.Year)
			}
			if _, err := fmt.Fprintf(w, "%s\t[%s]\t[%s]\n",
				c.String(), strings.Join(rec.Names(), ", "), strings.Join(times, ", ")); err != nil {
				return 0, err
			}
		}
		return len(codes), nil
	}
}

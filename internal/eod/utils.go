package eod

import (
	"path/filepath"
	"time"

	"screener-trader/internal/tradelog"
)

func istNow() time.Time {
	return time.Now().In(tradelog.IST)
}

func eodCSVPath(t time.Time) string {
	return filepath.Join(tradelog.Dir(), "eod", t.In(tradelog.IST).Format("2006-01-02")+".csv")
}

// marketCloseTime is 15:40 IST on t's day, a few minutes after the closing session.
func marketCloseTime(t time.Time) time.Time {
	t = t.In(tradelog.IST)
	return time.Date(t.Year(), t.Month(), t.Day(), 15, 40, 0, 0, tradelog.IST)
}

// protection labels how well the day's entries were covered by exits.
func protection(a *symbolAgg) string {
	switch {
	case a.Entry.OK == 0:
		return "NONE"
	case a.Stop.OK >= a.Entry.OK && a.Target.OK >= a.Entry.OK:
		return "FULL"
	case a.Stop.OK >= a.Entry.OK:
		return "STOP_ONLY"
	case a.Target.OK >= a.Entry.OK:
		return "TARGET_ONLY"
	default:
		return "UNPROTECTED"
	}
}

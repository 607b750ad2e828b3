package arena

import "log"

// Debug gates this package's structural trace points (backing-slice growth,
// free-list slot reuse) behind a log.Printf call, mirroring the teacher's
// own errPrintf/log.Printf trace points threaded through bufmgr.go's page
// allocation path. False by default so a production build pays nothing.
var Debug = false

func debugf(format string, args ...any) {
	if Debug {
		log.Printf(format, args...)
	}
}

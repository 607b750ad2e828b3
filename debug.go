package rbforest

import "log"

// Debug gates this package's structural trace points (rotations, notably
// those join/split trigger via fixInsert when splicing a pivot back in)
// behind a single log.Printf call each, mirroring the teacher's own
// log.Printf calls threaded through bltree.go's insertSlot/insertKey/
// splitPage. False by default so a production build pays nothing for it.
var Debug = false

func debugf(format string, args ...any) {
	if Debug {
		log.Printf(format, args...)
	}
}

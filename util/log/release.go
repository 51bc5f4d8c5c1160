//go:build release

package log

import (
	"log"
	"os"
	"runtime"
)

const debugEnabled = false

func init() {
	dir, err := Dir(runtime.GOOS)
	if err == nil {
		w, werr := NewFileWriter(dir)
		if werr == nil {
			log.SetOutput(w)
			log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
			return
		}
		err = werr
	}
	log.SetOutput(os.Stderr)
	log.Printf("File logging disabled: %v", err)
}

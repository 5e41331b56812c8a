// Package web holds the page that the monitoring server serves at its root.
package web

import (
	"embed"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DevModeEnv names the variable that, when true, makes the server read the
// page from the source tree instead of the binary.
const DevModeEnv = "MEMSIM_MONITOR_DEV"

//go:embed dist/*
var dist embed.FS

// GetAssets returns the files of the page.
func GetAssets() http.FileSystem {
	if devMode() {
		dir := sourceDistDir()
		logrus.WithField("dir", dir).Warn("serving monitoring page from disk")

		return http.Dir(dir)
	}

	sub, err := fs.Sub(dist, "dist")
	if err != nil {
		log.Panic(err)
	}

	return http.FS(sub)
}

func sourceDistDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		log.Panic("cannot locate the monitoring page sources")
	}

	return filepath.Join(filepath.Dir(file), "dist")
}

func devMode() bool {
	on, err := strconv.ParseBool(os.Getenv(DevModeEnv))
	return err == nil && on
}

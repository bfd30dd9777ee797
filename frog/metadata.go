package frog

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Software identity recorded in metadata.
const (
	SoftwareName = "fbctest"
	SoftwareURL  = "https://github.com/katalvlaran/fbctest"
)

// SoftwareVersion is overridden at link time with -ldflags "-X".
var SoftwareVersion = "0.1.0"

// NewMetadata describes a report built from the model file at modelPath
// with the named solver. The file is hashed in one pass.
func NewMetadata(modelPath, solverName string) (Metadata, error) {
	f, err := os.Open(modelPath)
	if err != nil {
		return nil, fmt.Errorf("frog: metadata: %w", err)
	}
	defer f.Close()

	sumMD5, sumSHA := md5.New(), sha256.New()
	if _, err := io.Copy(io.MultiWriter(sumMD5, sumSHA), f); err != nil {
		return nil, fmt.Errorf("frog: hash %s: %w", modelPath, err)
	}

	return Metadata{
		KeySoftwareName:    SoftwareName,
		KeySoftwareVersion: SoftwareVersion,
		KeySoftwareURL:     SoftwareURL,
		KeyEnvironment:     Environment(),
		KeyModelFilename:   filepath.Base(modelPath),
		KeyModelMD5:        hexSum(sumMD5),
		KeyModelSHA256:     hexSum(sumSHA),
		KeySolverName:      solverName,
	}, nil
}

// Environment is a single-line description of the runtime.
func Environment() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	line := fmt.Sprintf("%s %s/%s cpus=%d host=%s",
		runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.NumCPU(), host)

	return strings.Join(strings.Fields(line), " ")
}

func hexSum(h hash.Hash) string { return hex.EncodeToString(h.Sum(nil)) }

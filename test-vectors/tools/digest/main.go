package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/sha256-simd"
)

// Prints a digest of every vector file path and content under a directory, so that
// regenerated vectors can be compared without diffing them.
func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Expected exactly one argument, path of directory to digest\n")
		os.Exit(1)
	}
	rootDir := os.Args[1]
	h := sha256.New()
	err := filepath.Walk(rootDir+"/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		_, _ = h.Write([]byte(path))
		if info.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, _ = h.Write(data)
		return nil
	})
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("- %x\n", h.Sum(nil))
}

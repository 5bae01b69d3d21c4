//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Download fetches meeting audio and documents into board-meetings/.
func Download() error {
	return sh.RunV(binary(), "download")
}

// Generate writes episodes.json from the downloaded meeting folders.
func Generate() error {
	return sh.RunV(binary(), "generate")
}

// Extract fills episodes.json attachments with their document text.
func Extract() error {
	return sh.RunV(binary(), "extract")
}

// Index loads the extracted text into the full-text index.
func Index() error {
	return sh.RunV(binary(), "index")
}

// All runs the whole pipeline in order.
func All() {
	mg.SerialDeps(Download, Generate, Extract, Index)
}

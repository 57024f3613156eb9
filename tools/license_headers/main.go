//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar"
)

var (
	headerSectionRe *regexp.Regexp
	buildConstraint *regexp.Regexp
	targetHeader    []byte
)

// skipped are directories whose files carry their own headers
var skipped = []string{"_examples/", "_work/", "vendor/"}

func init() {
	headerSectionRe = regexp.MustCompile(`^(//.*\n)*\n`)
	buildConstraint = regexp.MustCompile(`^//go:build .*\n\n`)
	h, err := os.ReadFile("tools/license_headers/header.txt")
	fatal(err)
	targetHeader = bytes.TrimSpace(h)
}

func main() {
	fileNames, err := doublestar.Glob("**/*.go")
	fatal(err)

	for _, fname := range fileNames {
		if isSkipped(fname) {
			continue
		}
		fatal(processSingleFile(fname))
	}
}

func isSkipped(name string) bool {
	for _, prefix := range skipped {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func processSingleFile(name string) error {
	content, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("%s: %v", name, err)
	}

	constraint := buildConstraint.Find(content)
	body := content[len(constraint):]

	if headerNeedsUpdate(body) {
		updated := append(append([]byte{}, constraint...), replaceHeader(body)...)
		if err := os.WriteFile(name, updated, 0o644); err != nil {
			return fmt.Errorf("%s: %v", name, err)
		}

		fmt.Printf("👷 succesfully updated: %s\n", name)
	} else {
		fmt.Printf("✅ already up to date: %s\n", name)
	}
	return nil
}

func headerNeedsUpdate(content []byte) bool {
	current := headerSectionRe.Find(content)
	return !bytes.Equal(bytes.TrimSpace(current), targetHeader)
}

// replaceHeader swaps the leading comment block for the target header, or
// prepends the header if the file starts with code.
func replaceHeader(content []byte) []byte {
	// append two newlines so we consistently have one blank line regardless
	// of the input doc
	target := append(append([]byte{}, targetHeader...), []byte("\n\n")...)
	if headerSectionRe.Match(content) {
		return headerSectionRe.ReplaceAllLiteral(content, target)
	}
	return append(target, content...)
}

func fatal(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

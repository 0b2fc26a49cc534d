// Command kotok tokenizes Korean text from the command line and serves the
// HTTP API.
//
//	kotok tokenize "사랑해요"
//	echo "가자! 좋아." | kotok sentences
//	kotok mask --severity low "바보 멍청이"
//	kotok phrases --filter-spam "트위터 25.2% 상승"
//	kotok serve --config kotok.yaml
//
// Text is taken from the arguments, joined by spaces, or from stdin when
// no arguments are given. Configuration comes from --config and KOTOK_*
// environment variables.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "kotok: %v\n", err)
		os.Exit(1)
	}
}

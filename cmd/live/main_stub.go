//go:build !gocv
// +build !gocv

package main

import "log"

func main() {
	log.Fatal("live viewer requires OpenCV: build with -tags gocv")
}

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"crosslight/host/serial"
	"crosslight/host/trace"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	logDir  = flag.String("logdir", "", "Directory for transcript files (empty = no transcript)")
	verbose = flag.Bool("verbose", false, "Also print untagged serial output")
)

func main() {
	flag.Parse()

	fmt.Println("Crosslight Console - Controller Trace Monitor")
	fmt.Println("=============================================")
	fmt.Println()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	fmt.Printf("Opening %s...\n", *device)
	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open port: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	var transcript *os.File
	if *logDir != "" {
		session := uuid.New().String()
		path := filepath.Join(*logDir, "crosslight-"+session+".log")
		transcript, err = os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to create transcript: %v\n", err)
			os.Exit(1)
		}
		defer transcript.Close()
		fmt.Printf("Transcript: %s\n", path)
	}

	fmt.Println("Connected. Press Ctrl-C to exit.")
	fmt.Println()

	stream := trace.NewStream(port, func(ev trace.Event) {
		if ev.Role == "" && !*verbose {
			return
		}
		line := ev.String()
		fmt.Println(line)
		if transcript != nil {
			fmt.Fprintln(transcript, line)
		}
	})

	if err := stream.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading trace stream: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Stream closed. Events per role:")
	for role, n := range stream.Counts {
		if role == "" {
			role = "(untagged)"
		}
		fmt.Printf("  %-10s %d\n", role, n)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()

	printRed   = color.New(color.FgRed).PrintlnFunc()
	printGreen = color.New(color.FgGreen).PrintlnFunc()
)

func printError(msg string) {
	printRed(fmt.Sprintf("error: %s", msg))
}

func fail(err error) error {
	printError(err.Error())
	return err
}

func ensureOutputDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

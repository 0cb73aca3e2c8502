package utils

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/common-nighthawk/go-figure"
	"github.com/jedib0t/go-pretty/v6/text"
)

var activeSpinner *spinner.Spinner

func DrawBanner() {
	banner := figure.NewColorFigure("spot allocator", "", "blue", true)
	banner.Print()
}

func StartSpinner() {
	activeSpinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	activeSpinner.Suffix = text.FgHiBlue.Sprint(" evaluating regions...")
	activeSpinner.Start()
}

func StopSpinner() {
	if activeSpinner != nil {
		activeSpinner.Stop()
		activeSpinner = nil
	}
}

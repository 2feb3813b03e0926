package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/keypad"
)

// panel is the file layout consumed by front ends.
type panel struct {
	View    domain.ViewMode `yaml:"view"`
	Title   string          `yaml:"title"`
	Buttons []keypad.Button `yaml:"buttons"`
}

func main() {
	targetDir := "web/keypad"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		panic(err)
	}

	fmt.Printf("Generating keypad layouts in: %s\n", targetDir)

	for _, view := range []domain.ViewMode{domain.ViewBasic, domain.ViewScientific, domain.ViewHistory} {
		out, err := yaml.Marshal(panel{
			View:    view,
			Title:   view.Title(),
			Buttons: keypad.Layout(view),
		})
		check(err)

		path := filepath.Join(targetDir, string(view)+".yaml")
		check(os.WriteFile(path, out, 0o644))
		fmt.Printf("  wrote %s\n", path)
	}
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}

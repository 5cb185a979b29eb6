// Package lesson contains the narrated teaching programs.
//
// Each lesson is a runnable chapter that prints its story to a writer:
// what is being built, the code's result, and the occasional deliberate
// failure. Lessons build on each other and the registry preserves that
// order, from raw tensors through graphs and sessions to a full
// gradient-descent training loop.
package lesson

import (
	"fmt"
	"io"

	"github.com/chalk-ml/chalk/internal/tensor"
)

// Lesson is one runnable chapter.
type Lesson struct {
	// Slug is the short name used on the command line.
	Slug string

	// Title is the human-readable chapter heading.
	Title string

	// Run executes the lesson, writing narrated output. Numeric output
	// is deterministic for a given backend; auto-generated node names
	// vary between runs.
	Run func(w io.Writer, backend tensor.Backend) error
}

var lessons = []Lesson{
	{Slug: "tensors", Title: "Tensors: data with a shape", Run: runTensors},
	{Slug: "graph", Title: "Graphs: describing computation without running it", Run: runGraph},
	{Slug: "session", Title: "Sessions: where graphs execute", Run: runSession},
	{Slug: "placeholders", Title: "Placeholders: inputs fed at run time", Run: runPlaceholders},
	{Slug: "variables", Title: "Variables: state that training updates", Run: runVariables},
	{Slug: "train", Title: "Training: fitting a single layer by gradient descent", Run: runTrain},
	{Slug: "text", Title: "Text: from characters to tensors", Run: runText},
}

// All returns every lesson in teaching order.
func All() []Lesson {
	return lessons
}

// Find returns the lesson with the given slug.
func Find(slug string) (Lesson, bool) {
	for _, l := range lessons {
		if l.Slug == slug {
			return l, true
		}
	}
	return Lesson{}, false
}

func say(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "== %s ==\n\n", title)
}

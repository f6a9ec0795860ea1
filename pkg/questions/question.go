// Package questions holds the question dataset shown on the home page and
// the sources it is loaded from.
package questions

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNotFound is returned when a question does not exist.
var ErrNotFound = errors.New("questions: not found")

// Author is the person who asked a question.
type Author struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Question is a single community question.
type Question struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Author      Author    `json:"author"`
	Upvotes     int       `json:"upvotes"`
	Views       int       `json:"views"`
	Answers     int       `json:"answers"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Tag is a popular tag with its question count.
type Tag struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Questions int    `json:"questions"`
}

// Dataset is everything a Source provides.
type Dataset struct {
	Questions []Question `json:"questions"`
	Tags      []Tag      `json:"tags"`
}

// Decode reads a JSON dataset and checks that question ids are unique and
// titles non-empty.
func Decode(r io.Reader) (Dataset, error) {
	var ds Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("questions: decode dataset: %w", err)
	}

	seen := make(map[int]struct{}, len(ds.Questions))
	for _, q := range ds.Questions {
		if q.Title == "" {
			return Dataset{}, fmt.Errorf("questions: question %d has no title", q.ID)
		}
		if _, dup := seen[q.ID]; dup {
			return Dataset{}, fmt.Errorf("questions: duplicate question id %d", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return ds, nil
}

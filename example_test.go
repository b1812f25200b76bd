package parley_test

import (
	"fmt"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/player"
)

func Example() {
	g := domain.NewGraph(
		&domain.Node{ID: "1", Text: "Hello", Choices: []domain.Choice{{Text: "Bye", TargetNodeID: "2"}}},
		&domain.Node{ID: "2", Text: "Goodbye", Choices: []domain.Choice{}},
	)

	var screen player.Recorder
	e := player.New(g, &screen, player.WithContinueHint(""))

	_ = e.Start("1")
	fmt.Println(screen.Text)

	_ = e.OnContinue()
	for _, opt := range screen.Options {
		fmt.Printf("%d) %s\n", opt.Index+1, opt.Label)
	}

	_ = e.OnChoose(0)
	fmt.Println(screen.Text)

	// Output:
	// Hello
	// 1) Bye
	// Goodbye
}

package player

// Option is one selectable choice as presented to the reader.
type Option struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// Presenter receives the engine's output.
type Presenter interface {
	// ShowText replaces the displayed dialogue text.
	ShowText(text string)
	// ShowChoices presents one selectable option per choice.
	ShowChoices(options []Option)
	// ClearChoices removes any presented options.
	ClearChoices()
}

// Recorder is a Presenter that keeps what is currently on screen.
type Recorder struct {
	Text    string
	Options []Option

	// Texts lists every text shown, in order.
	Texts []string
}

// ShowText implements Presenter.
func (r *Recorder) ShowText(text string) {
	r.Text = text
	r.Texts = append(r.Texts, text)
}

// ShowChoices implements Presenter.
func (r *Recorder) ShowChoices(options []Option) {
	r.Options = append([]Option(nil), options...)
}

// ClearChoices implements Presenter.
func (r *Recorder) ClearChoices() {
	r.Options = nil
}

type discard struct{}

func (discard) ShowText(string) {}

func (discard) ShowChoices([]Option) {}

func (discard) ClearChoices() {}

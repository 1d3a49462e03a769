package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/aretw0/waypoint"
	"github.com/aretw0/waypoint/pkg/adapters/dom"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/registry"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrInvalidFlow is returned when a flow file cannot be decoded or bound.
var ErrInvalidFlow = errors.New("invalid flow")

// FlowSpec is the decoded form of a flow file.
type FlowSpec struct {
	Initial      string        `mapstructure:"initial"`
	DefaultWait  time.Duration `mapstructure:"default_wait"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// Refresh reloads the page before every readiness check.
	Refresh bool        `mapstructure:"refresh"`
	States  []StateSpec `mapstructure:"states"`
}

// StateSpec describes one state of the flow.
type StateSpec struct {
	Name        string        `mapstructure:"name"`
	Ready       *ReadySpec    `mapstructure:"ready"`
	Action      *ActionSpec   `mapstructure:"action"`
	Transitions []string      `mapstructure:"transitions"`
	Wait        time.Duration `mapstructure:"wait"`
}

// ReadySpec describes a page condition. Several keys in the same spec must
// all hold.
type ReadySpec struct {
	Visible       string      `mapstructure:"visible"`
	TitleContains string      `mapstructure:"title_contains"`
	TextContains  *TextSpec   `mapstructure:"text_contains"`
	URLContains   string      `mapstructure:"url_contains"`
	All           []ReadySpec `mapstructure:"all"`
	Any           []ReadySpec `mapstructure:"any"`
	Not           *ReadySpec  `mapstructure:"not"`
}

// TextSpec matches text inside the elements selected by Selector.
type TextSpec struct {
	Selector string `mapstructure:"selector"`
	Text     string `mapstructure:"text"`
}

// ActionSpec describes what happens on entering a state. Visit runs before Submit.
type ActionSpec struct {
	Visit  string      `mapstructure:"visit"`
	Submit *SubmitSpec `mapstructure:"submit"`
}

// SubmitSpec fills and submits a form.
type SubmitSpec struct {
	Form   string            `mapstructure:"form"`
	Values map[string]string `mapstructure:"values"`
}

// Load reads and decodes the flow file at path.
func Load(path string) (*FlowSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow %s: %w", path, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// Parse decodes a flow document. Unknown keys are rejected.
func Parse(data []byte) (*FlowSpec, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFlow, err)
	}

	var spec FlowSpec
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			rejectBareDurations,
			mapstructure.StringToTimeDurationHookFunc(),
		),
		ErrorUnused: true,
		Result:      &spec,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFlow, err)
	}
	if len(spec.States) == 0 {
		return nil, fmt.Errorf("%w: no states declared", ErrInvalidFlow)
	}
	return &spec, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// rejectBareDurations refuses numbers where a duration is expected: "wait: 30"
// would otherwise silently mean 30ns.
func rejectBareDurations(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil, fmt.Errorf("duration %v needs a unit, e.g. \"%vs\"", data, data)
	}
	return data, nil
}

// Registry binds the flow to DOM conditions and actions. The registry is not
// validated, so callers can choose between Validate and ValidateAll.
// The initial state defaults to the first declared state.
func (f *FlowSpec) Registry() (*registry.Registry, error) {
	reg := registry.NewRegistry()
	for _, s := range f.States {
		state := domain.State{
			Name:        s.Name,
			Transitions: s.Transitions,
			WaitBudget:  s.Wait,
		}
		if s.Ready != nil {
			cond, err := s.Ready.Condition()
			if err != nil {
				return nil, fmt.Errorf("%w: state %q: %v", ErrInvalidFlow, s.Name, err)
			}
			if f.Refresh {
				cond = dom.Refreshing(cond)
			}
			state.Ready = cond
		}
		if s.Action != nil {
			action, err := s.Action.Action()
			if err != nil {
				return nil, fmt.Errorf("%w: state %q: %v", ErrInvalidFlow, s.Name, err)
			}
			state.Action = action
		}
		if err := reg.AddState(state); err != nil {
			return nil, err
		}
	}

	initial := f.Initial
	if initial == "" {
		initial = f.States[0].Name
	}
	reg.SetInitialState(initial)
	return reg, nil
}

// Options returns the engine options the flow carries.
func (f *FlowSpec) Options() []waypoint.Option {
	var opts []waypoint.Option
	if f.DefaultWait > 0 {
		opts = append(opts, waypoint.WithDefaultWaitBudget(f.DefaultWait))
	}
	if f.PollInterval > 0 {
		opts = append(opts, waypoint.WithPollInterval(f.PollInterval))
	}
	return opts
}

// Condition builds the page condition described by r.
func (r ReadySpec) Condition() (domain.Page, error) {
	var clauses []domain.Condition

	if r.Visible != "" {
		clauses = append(clauses, dom.Visible(r.Visible))
	}
	if r.TitleContains != "" {
		clauses = append(clauses, dom.TitleContains(r.TitleContains))
	}
	if r.TextContains != nil {
		if r.TextContains.Text == "" {
			return nil, errors.New("text_contains requires text")
		}
		clauses = append(clauses, dom.TextContains(r.TextContains.Selector, r.TextContains.Text))
	}
	if r.URLContains != "" {
		clauses = append(clauses, dom.URLContains(r.URLContains))
	}
	if len(r.All) > 0 {
		all, err := conditions(r.All)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, domain.And(all...))
	}
	if len(r.Any) > 0 {
		anyOf, err := conditions(r.Any)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, domain.Or(anyOf...))
	}
	if r.Not != nil {
		inner, err := r.Not.Condition()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, domain.Not(inner))
	}

	switch len(clauses) {
	case 0:
		return nil, errors.New("empty ready condition")
	case 1:
		return clauses[0], nil
	default:
		return domain.And(clauses...), nil
	}
}

func conditions(specs []ReadySpec) ([]domain.Condition, error) {
	out := make([]domain.Condition, 0, len(specs))
	for _, s := range specs {
		c, err := s.Condition()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Action builds the entry action described by a.
func (a ActionSpec) Action() (domain.Action, error) {
	var actions []domain.Action
	if a.Visit != "" {
		actions = append(actions, dom.VisitAction(a.Visit))
	}
	if a.Submit != nil {
		if a.Submit.Form == "" {
			return nil, errors.New("submit requires form")
		}
		actions = append(actions, dom.Submit(a.Submit.Form, a.Submit.Values))
	}

	switch len(actions) {
	case 0:
		return nil, errors.New("empty action")
	case 1:
		return actions[0], nil
	default:
		return dom.Sequence(actions...), nil
	}
}

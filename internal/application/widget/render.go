package widget

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
)

const defaultHeading = "Buy together and save"

const defaultButtonText = "Add bundle to cart"

var widgetTemplate = template.Must(template.New("bundle").Parse(`<div class="bundle-widget" data-bundle-id="{{.BundleID}}" data-session-id="{{.SessionID}}">
  <h3 class="bundle-widget__heading">{{.Heading}}</h3>
  <ul class="bundle-widget__products">
  {{- range $i, $c := .Cards}}
    <li class="bundle-widget__product{{if not $c.Available}} bundle-widget__product--unavailable{{end}}" data-index="{{$i}}">
      {{- if $c.Product.Image}}<img src="{{$c.Product.Image}}" alt="{{$c.Product.Title}}">{{end}}
      <span class="bundle-widget__title">{{$c.Required}} × {{$c.Product.Title}}</span>
      {{- range $j, $o := $c.Product.Options}}
      <select name="option{{$j}}" data-index="{{$i}}">
        {{- range $o.Values}}<option{{if eq . (index $c.Selected $j)}} selected{{end}}>{{.}}</option>{{end}}
      </select>
      {{- end}}
      {{- if not $c.Available}}<span class="bundle-widget__soldout">Unavailable</span>{{end}}
    </li>
  {{- end}}
  </ul>
  <p class="bundle-widget__price">
    {{- if .Preview.Discounted}}<s>{{.Preview.OriginalText}}</s> {{end}}<strong>{{.Preview.TotalText}}</strong>
  </p>
  {{- if .Message}}<p class="bundle-widget__error" role="alert">{{.Message}}</p>{{end}}
  <button type="button" class="bundle-widget__button">{{.ButtonText}}</button>
</div>`))

type viewModel struct {
	BundleID   string
	SessionID  string
	Heading    string
	ButtonText string
	Cards      []ProductCard
	Preview    Preview
	Message    string
}

// Render returns the widget markup for the current session state
func (s *Session) Render() (string, error) {
	bundle := s.Bundle()
	if bundle == nil {
		return "", ErrNotReady
	}

	vm := viewModel{
		BundleID:   bundle.ID,
		SessionID:  s.ID(),
		Heading:    defaultHeading,
		ButtonText: defaultButtonText,
		Cards:      s.Cards(),
		Preview:    s.Preview(),
		Message:    s.Message(),
	}
	if bundle.Settings != nil {
		if bundle.Settings.Heading != "" {
			vm.Heading = bundle.Settings.Heading
		}
		if bundle.Settings.ButtonText != "" {
			vm.ButtonText = bundle.Settings.ButtonText
		}
	}
	for i := range vm.Cards {
		// pad selections so the template can index every option
		for len(vm.Cards[i].Selected) < len(vm.Cards[i].Product.Options) {
			vm.Cards[i].Selected = append(vm.Cards[i].Selected, "")
		}
	}

	var buf bytes.Buffer
	if err := widgetTemplate.Execute(&buf, vm); err != nil {
		return "", fmt.Errorf("failed to render bundle widget: %w", err)
	}
	return buf.String(), nil
}

// Mount renders the widget and injects it into the page
func (s *Session) Mount(ctx context.Context, injector *Injector, doc Document) bool {
	content, err := s.Render()
	if err != nil {
		return false
	}
	_, ok := injector.Inject(ctx, doc, content)
	return ok
}

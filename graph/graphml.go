package graph

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type graphmlKey struct {
	ID      string `xml:"id,attr"`
	For     string `xml:"for,attr"`
	Name    string `xml:"attr.name,attr"`
	Default string `xml:"default"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

// ReadGraphML parses a GraphML document. Nodes are numbered in document
// order; edge endpoints that were never declared as <node> are added on
// first use. In weighted mode the edge weight is the <data> value whose key
// declares attr.name equal to the configured weight attribute, falling back
// to that key's <default>.
func ReadGraphML(r io.Reader, opts ...ReadOption) (*Graph, error) {
	o := applyReadOptions(opts)
	b := NewBuilder(o.directed, o.weighted())

	var (
		weightKey     string
		weightDefault string
	)

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		line, _ := dec.InputPos()

		switch start.Name.Local {
		case "key":
			var k graphmlKey
			if err := dec.DecodeElement(&k, &start); err != nil {
				return nil, err
			}
			if k.Name == o.weightAttr && (k.For == "edge" || k.For == "all" || k.For == "") {
				weightKey = k.ID
				weightDefault = strings.TrimSpace(k.Default)
			}

		case "node":
			id := attr(start, "id")
			if id == "" {
				return nil, &ParseError{Line: line, Input: "<node>", cause: fmt.Errorf("missing id")}
			}
			if _, err := b.AddNode(id); err != nil {
				return nil, err
			}

		case "edge":
			var e graphmlEdge
			if err := dec.DecodeElement(&e, &start); err != nil {
				return nil, err
			}
			input := fmt.Sprintf("<edge source=%q target=%q>", e.Source, e.Target)
			if e.Source == "" || e.Target == "" {
				return nil, &ParseError{Line: line, Input: input, cause: fmt.Errorf("missing endpoint")}
			}

			w := 1.0
			if o.weighted() {
				raw, found := weightDefault, weightDefault != ""
				for _, d := range e.Data {
					if weightKey != "" && d.Key == weightKey {
						raw, found = strings.TrimSpace(d.Value), true
					}
				}
				if !found {
					return nil, &ParseError{Line: line, Input: input, cause: fmt.Errorf("%w: attribute %q", ErrMissingWeight, o.weightAttr)}
				}
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, &ParseError{Line: line, Input: input, cause: err}
				}
				w = v
			}

			if err := b.AddEdgeByLabel(e.Source, e.Target, w); err != nil {
				return nil, &ParseError{Line: line, Input: input, cause: err}
			}
		}
	}

	return b.Build()
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

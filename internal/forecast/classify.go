package forecast

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/i474232898/yrno-forecast/internal/xmltree"
)

// Tag names of the locationforecast document.
const (
	tagRoot          = "weatherdata"
	tagProduct       = "product"
	tagTime          = "time"
	tagLocation      = "location"
	tagSymbol        = "symbol"
	tagPrecipitation = "precipitation"
	tagMinTemp       = "minTemperature"
	tagMaxTemp       = "maxTemperature"
)

// Classify walks weatherdata > product > time and sorts every time node
// into a basic or detailed interval. A location carrying a symbol is basic;
// anything else is detailed. Any structural problem fails the whole
// document.
func Classify(root *xmltree.Node) (*Document, error) {
	if root == nil || root.Name != tagRoot {
		return nil, &ParseError{Msg: "expected <" + tagRoot + "> root", Err: ErrMissingElement}
	}

	product := root.Child(tagProduct)
	if product == nil {
		return nil, &ParseError{Msg: "expected <" + tagProduct + "> in <" + tagRoot + ">", Err: ErrMissingElement}
	}

	nodes := product.ChildrenNamed(tagTime)
	if len(nodes) == 0 {
		return nil, &ParseError{Msg: "no forecast data", Err: ErrNoTimeNodes}
	}

	doc := &Document{}
	for i, node := range nodes {
		w, err := parseWindow(node, i)
		if err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("time node %d", i), Err: err}
		}

		loc := node.Child(tagLocation)
		if loc == nil {
			return nil, &ParseError{
				Msg: fmt.Sprintf("time node %d: expected <%s>", i, tagLocation),
				Err: ErrMissingElement,
			}
		}

		switch classifyLocation(loc) {
		case kindBasic:
			b, err := parseBasic(w, loc)
			if err != nil {
				return nil, &ParseError{Msg: fmt.Sprintf("time node %d (%s)", i, kindBasic), Err: err}
			}
			doc.Basic = append(doc.Basic, b)
		case kindDetailed:
			doc.Detailed = append(doc.Detailed, parseDetailed(w, loc))
		}

		if i == 0 {
			doc.First = w.From
		}
		doc.Last = w.From
	}

	sort.SliceStable(doc.Basic, func(i, j int) bool {
		return doc.Basic[i].To.Before(doc.Basic[j].To)
	})
	sort.SliceStable(doc.Detailed, func(i, j int) bool {
		return doc.Detailed[i].To.Before(doc.Detailed[j].To)
	})

	return doc, nil
}

// classifyLocation decides the interval kind from the location's
// children, never from the node's position.
func classifyLocation(loc *xmltree.Node) kind {
	if loc.HasChild(tagSymbol) {
		return kindBasic
	}
	return kindDetailed
}

func parseWindow(node *xmltree.Node, index int) (Window, error) {
	from, err := parseInstant(node, "from")
	if err != nil {
		return Window{}, err
	}
	to, err := parseInstant(node, "to")
	if err != nil {
		return Window{}, err
	}
	if from.After(to) {
		return Window{}, fmt.Errorf("%w: from %s after to %s", ErrBadWindow,
			from.Format(TimestampLayout), to.Format(TimestampLayout))
	}
	return Window{From: from, To: to, Index: index}, nil
}

func parseInstant(node *xmltree.Node, attr string) (time.Time, error) {
	raw, ok := node.Attr(attr)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: missing %q attribute", ErrBadWindow, attr)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s=%q: %v", ErrBadWindow, attr, raw, err)
	}
	return t.UTC(), nil
}

func parseBasic(w Window, loc *xmltree.Node) (BasicInterval, error) {
	b := BasicInterval{Window: w}

	sym := loc.Child(tagSymbol)
	b.Symbol.ID, _ = sym.Attr("id")
	if raw, ok := sym.Attr("number"); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			b.Symbol.Number = n
		}
	}

	precip := loc.Child(tagPrecipitation)
	if precip == nil {
		return BasicInterval{}, fmt.Errorf("%w: <%s> next to <%s>", ErrMissingElement, tagPrecipitation, tagSymbol)
	}
	b.Precipitation = parseAttribute(precip)

	if n := loc.Child(tagMinTemp); n != nil {
		a := parseAttribute(n)
		b.MinTemperature = &a
	}
	if n := loc.Child(tagMaxTemp); n != nil {
		a := parseAttribute(n)
		b.MaxTemperature = &a
	}
	return b, nil
}

func parseDetailed(w Window, loc *xmltree.Node) DetailedInterval {
	d := DetailedInterval{Window: w, Attributes: make([]Attribute, 0, len(loc.Children))}
	for _, c := range loc.Children {
		d.Attributes = append(d.Attributes, parseAttribute(c))
	}
	return d
}

func parseAttribute(n *xmltree.Node) Attribute {
	a := Attribute{Name: n.Name, Fields: make(map[string]string, len(n.Attrs))}
	for _, attr := range n.Attrs {
		if attr.Name == "id" {
			a.ID = attr.Value
			continue
		}
		a.Fields[attr.Name] = attr.Value
	}

	value, hasValue := a.Fields["value"]
	unit, hasUnit := a.Fields["unit"]
	percent, hasPercent := a.Fields["percent"]

	switch {
	case hasValue && hasUnit:
		a.Shape, a.Value, a.Unit = ShapeMeasure, value, unit
	case hasPercent:
		a.Shape, a.Percent = ShapePercent, percent
	default:
		a.Shape = ShapeComposite
	}
	return a
}

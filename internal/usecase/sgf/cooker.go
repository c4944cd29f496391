package sgf

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"

	sgf "gammon_sgf/internal/domain/sgf"
	"gammon_sgf/internal/errors"
	"gammon_sgf/internal/trace"
)

// Cooker turns raw trees into typed trees.
type Cooker struct {
	registry *sgf.Registry
	tracer   *trace.Tracer
}

func NewCooker(registry *sgf.Registry, tracer *trace.Tracer) *Cooker {
	return &Cooker{registry: registry, tracer: tracer}
}

// Cook returns a cooked copy of raw; raw itself is not modified. With a nil
// flavor every top-level tree is cooked with the flavor its GM selects.
// Already cooked values are cooked again from their text.
func (k *Cooker) Cook(raw *sgf.Collection, f *sgf.Flavor) (*sgf.Collection, error) {
	out := sgf.NewCollection(raw.Name)
	for _, top := range raw.Trees {
		flavor := f
		if flavor == nil {
			flavor = k.detect(raw, top)
		}
		run := &cookRun{
			k:      k,
			raw:    raw,
			out:    out,
			flavor: flavor,
			log:    k.tracer.Debug(trace.RealmCooker),
			warn:   k.tracer.Log(trace.RealmCooker),
		}
		if err := run.charset(top); err != nil {
			return nil, err
		}
		id, err := run.tree(top, sgf.NoTree)
		if err != nil {
			return nil, err
		}
		out.Tree(id).Flavor = flavor
		run.log.Debugw("cooked tree", "tree", id, "flavor", flavor.Name)
	}
	return out, nil
}

// detect picks the flavor named by GM on the root node. A missing GM means
// GM[1].
func (k *Cooker) detect(raw *sgf.Collection, top sgf.TreeID) *sgf.Flavor {
	root, ok := raw.RootNode(top)
	if !ok {
		return k.registry.Fallback()
	}
	v, ok := root.Get("GM")
	if !ok {
		return k.registry.ForGame(sgf.GenericGame)
	}
	values := rawValues(v)
	if len(values) != 1 {
		return k.registry.Fallback()
	}
	gm, err := sgf.ParseNumber(values[0])
	if err != nil {
		return k.registry.Fallback()
	}
	if !k.registry.Known(int(gm)) {
		k.tracer.Log(trace.RealmCooker).Warnw("no flavor for game, using generic", "GM", gm)
	}
	return k.registry.ForGame(int(gm))
}

// rawValues returns the bracket texts of v.
func rawValues(v sgf.Value) []string {
	switch v := v.(type) {
	case sgf.Raw:
		return v
	case sgf.List:
		if len(v.Items) == 0 {
			return []string{""}
		}
		out := make([]string, len(v.Items))
		for i, it := range v.Items {
			out[i] = sgf.TextOf(it)
		}
		return out
	}
	return []string{sgf.TextOf(v)}
}

type cookRun struct {
	k       *Cooker
	raw     *sgf.Collection
	out     *sgf.Collection
	flavor  *sgf.Flavor
	decoder *encoding.Decoder
	log     *zap.SugaredLogger
	warn    *zap.SugaredLogger
}

// charset selects the decoder of a top-level tree. CA names the charset;
// without CA, text that is not valid UTF-8 is read as ISO-8859-1.
func (r *cookRun) charset(top sgf.TreeID) error {
	root, ok := r.raw.RootNode(top)
	if !ok {
		return nil
	}
	if v, ok := root.Get("CA"); ok {
		values := rawValues(v)
		if len(values) != 1 {
			return nil
		}
		name := sgf.NormalizeSimpleText(values[0])
		if isUTF8(name) {
			return nil
		}
		enc, err := htmlindex.Get(name)
		if err != nil {
			r.warn.Warnw("unknown charset, reading as UTF-8", "charset", name)
			return nil
		}
		r.decoder = enc.NewDecoder()
		r.log.Debugw("decoding", "charset", name)
		return nil
	}

	err := r.raw.Walk(top, func(id sgf.NodeID) error {
		for _, p := range r.raw.Node(id).Properties {
			for _, s := range rawValues(p.Value) {
				if !utf8.ValidString(s) {
					return errStop
				}
			}
		}
		return nil
	})
	switch {
	case errors.Is(err, errStop):
		r.decoder = charmap.ISO8859_1.NewDecoder()
		r.log.Debugw("decoding", "charset", "ISO-8859-1")
	case err != nil:
		return err
	}
	return nil
}

var errStop = fmt.Errorf("stop")

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

func (r *cookRun) tree(src, parent sgf.TreeID) (sgf.TreeID, error) {
	id := r.out.AddTree(parent)
	t := r.raw.Tree(src)
	nodes := append([]sgf.NodeID(nil), t.Nodes...)
	children := append([]sgf.TreeID(nil), t.Children...)
	for _, n := range nodes {
		if err := r.node(n, r.out.AddNode(id)); err != nil {
			return id, err
		}
	}
	for _, child := range children {
		if _, err := r.tree(child, id); err != nil {
			return id, err
		}
	}
	return id, nil
}

func (r *cookRun) node(src, dst sgf.NodeID) error {
	for _, p := range r.raw.Node(src).Properties {
		values, err := r.decode(p)
		if err != nil {
			return err
		}
		if p.ID == "CA" && r.decoder != nil {
			values = []string{"UTF-8"}
		}

		d, ok := r.flavor.Lookup(p.ID)
		var v sgf.Value
		if !ok {
			r.warn.Warnw("unknown property kept raw", "id", p.ID, "flavor", r.flavor.Name,
				"line", p.Pos.Line, "column", p.Pos.Column)
			v = sgf.Raw(values)
		} else {
			v, err = d.Type.Parse(values, r.flavor)
			if err != nil {
				return r.errorf(p, err, "invalid value [%s] for %s", strings.Join(values, "]["), d.Type)
			}
		}
		if err := r.out.SetProperty(dst, sgf.Property{ID: p.ID, Value: v, Pos: p.Pos}); err != nil {
			return r.errorf(p, nil, "%v", err)
		}
	}
	if err := r.flavor.CheckExclusions(r.out.Node(dst)); err != nil {
		var p sgf.Property
		if props := r.raw.Node(src).Properties; len(props) > 0 {
			p = props[0]
		}
		return r.errorf(p, nil, "%v", err)
	}
	return nil
}

func (r *cookRun) decode(p sgf.Property) ([]string, error) {
	values := rawValues(p.Value)
	if r.decoder == nil {
		return values, nil
	}
	out := make([]string, len(values))
	for i, s := range values {
		d, err := r.decoder.String(s)
		if err != nil {
			return nil, r.errorf(p, err, "cannot decode value")
		}
		out[i] = d
	}
	return out, nil
}

func (r *cookRun) errorf(p sgf.Property, cause error, format string, args ...any) *errors.Error {
	return &errors.Error{
		Kind:     errors.KindSemantics,
		Msg:      fmt.Sprintf(format, args...),
		File:     r.raw.Name,
		Offset:   p.Pos.Offset,
		Line:     p.Pos.Line,
		Column:   p.Pos.Column,
		Property: p.ID,
		Err:      cause,
	}
}

package typesystem

// AnyNum is the kind of a numeric literal before inference has pinned down
// a concrete width. It behaves like Num in shape checks but unifies freely
// against any other Num kind.
const AnyNum NumKind = -1

// Unify computes the meet of two type constraints applying to the same
// node. Unknown is the identity; an AllOf meeting any other type has its
// members folded, one by one, into a single merged type rather than kept
// as a set; anything else must agree structurally or the pair is a
// TypeMismatch.
//
// Unify is commutative and is called repeatedly by the inference pass
// until a fixed point (see analyzer.Infer): each call either narrows a
// node's type or proves two already-narrowed expectations conflict.
func Unify(site string, a, b Type) (Type, error) {
	if IsUnknown(a) {
		return b, nil
	}
	if IsUnknown(b) {
		return a, nil
	}

	if aa, ok := a.(AllOf); ok {
		return unifyAllOf(site, aa, b)
	}
	if bb, ok := b.(AllOf); ok {
		return unifyAllOf(site, bb, a)
	}

	switch av := a.(type) {
	case Bool:
		if _, ok := b.(Bool); ok {
			return a, nil
		}
	case Str:
		if _, ok := b.(Str); ok {
			return a, nil
		}
	case Chr:
		if _, ok := b.(Chr); ok {
			return a, nil
		}
	case Num:
		if bv, ok := b.(Num); ok {
			if av.Kind == AnyNum {
				return b, nil
			}
			if bv.Kind == AnyNum || bv.Kind == av.Kind {
				return a, nil
			}
		}
	case List:
		if bv, ok := b.(List); ok {
			elem, err := Unify(site, av.Elem, bv.Elem)
			if err != nil {
				return nil, err
			}
			return List{Elem: elem}, nil
		}
	case Tuple:
		if bv, ok := b.(Tuple); ok && len(av.Elems) == len(bv.Elems) {
			out := make([]Type, len(av.Elems))
			for i := range av.Elems {
				m, err := Unify(site, av.Elems[i], bv.Elems[i])
				if err != nil {
					return nil, err
				}
				out[i] = m
			}
			return Tuple{Elems: out}, nil
		}
	case Record:
		if bv, ok := b.(Record); ok {
			return unifyRecord(site, av, bv)
		}
	case Option:
		if bv, ok := b.(Option); ok {
			inner, err := Unify(site, av.Inner, bv.Inner)
			if err != nil {
				return nil, err
			}
			return Option{Inner: inner}, nil
		}
	case Result:
		if bv, ok := b.(Result); ok {
			ok1, err := Unify(site, av.Ok, bv.Ok)
			if err != nil {
				return nil, err
			}
			err1, err := Unify(site, av.Err, bv.Err)
			if err != nil {
				return nil, err
			}
			return Result{Ok: ok1, Err: err1}, nil
		}
	case Variant:
		if bv, ok := b.(Variant); ok {
			return unifyVariant(site, av, bv)
		}
	case Enum:
		if bv, ok := b.(Enum); ok && sameNames(av.Names, bv.Names) {
			return a, nil
		}
	case Flags:
		if bv, ok := b.(Flags); ok && sameNames(av.Names, bv.Names) {
			return a, nil
		}
	}

	return nil, NewMismatch(site, a, b)
}

func unifyRecord(site string, a, b Record) (Type, error) {
	byName := make(map[string]Type, len(a.Fields))
	order := make([]string, 0, len(a.Fields))
	for _, f := range a.Fields {
		byName[f.Name] = f.Type
		order = append(order, f.Name)
	}
	for _, f := range b.Fields {
		if existing, ok := byName[f.Name]; ok {
			m, err := Unify(site, existing, f.Type)
			if err != nil {
				return nil, err
			}
			byName[f.Name] = m
		} else {
			byName[f.Name] = f.Type
			order = append(order, f.Name)
		}
	}
	fields := make([]Field, len(order))
	for i, name := range order {
		fields[i] = Field{Name: name, Type: byName[name]}
	}
	return Record{Fields: fields}, nil
}

func unifyVariant(site string, a, b Variant) (Type, error) {
	byName := make(map[string]VariantCase, len(a.Cases))
	order := make([]string, 0, len(a.Cases))
	for _, c := range a.Cases {
		byName[c.Name] = c
		order = append(order, c.Name)
	}
	for _, c := range b.Cases {
		if existing, ok := byName[c.Name]; ok {
			if existing.Payload == nil || c.Payload == nil {
				if existing.Payload != c.Payload {
					return nil, NewMismatch(site, a, b)
				}
				continue
			}
			m, err := Unify(site, existing.Payload, c.Payload)
			if err != nil {
				return nil, err
			}
			byName[c.Name] = VariantCase{Name: c.Name, Payload: m}
		} else {
			byName[c.Name] = c
			order = append(order, c.Name)
		}
	}
	cases := make([]VariantCase, len(order))
	for i, name := range order {
		cases[i] = byName[name]
	}
	return Variant{Cases: cases}, nil
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func unifyAllOf(site string, a AllOf, b Type) (Type, error) {
	members := a.Types
	if bAll, ok := b.(AllOf); ok {
		members = append(append([]Type{}, members...), bAll.Types...)
	} else {
		members = append(append([]Type{}, members...), b)
	}

	acc := Type(Unknown{})
	for _, m := range members {
		merged, err := Unify(site, acc, m)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	return acc, nil
}

// Finalize resolves any remaining under-constrained detail left after
// inference reaches its fixed point: an unconstrained numeric literal
// defaults to F64, matching the WIT analysed-type default for a plain
// number.
func Finalize(t Type) Type {
	switch v := t.(type) {
	case Num:
		if v.Kind == AnyNum {
			return Num{Kind: F64}
		}
		return v
	case List:
		return List{Elem: Finalize(v.Elem)}
	case Tuple:
		out := make([]Type, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = Finalize(e)
		}
		return Tuple{Elems: out}
	case Record:
		out := make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			out[i] = Field{Name: f.Name, Type: Finalize(f.Type)}
		}
		return Record{Fields: out}
	case Option:
		return Option{Inner: Finalize(v.Inner)}
	case Result:
		return Result{Ok: Finalize(v.Ok), Err: Finalize(v.Err)}
	default:
		return t
	}
}

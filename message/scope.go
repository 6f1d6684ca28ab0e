package message

import "log/slog"

// slot holds one local declaration for the duration of a call.
// An unresolved slot is evaluated on first use and rewritten in place.
type slot struct {
	name     string
	expr     Expression
	value    *Value
	resolved bool
}

// scope is the per-call name table: the caller's arguments plus the
// message's declarations, in declaration order. Declaration i can only see
// the arguments and the slots before it.
type scope struct {
	args  Args
	index map[string]int // declaration name -> slot
	slots []slot
}

func newScope(args Args, decls []Declaration, index map[string]int) *scope {
	s := &scope{args: args, index: index, slots: make([]slot, len(decls))}

	for i, d := range decls {
		s.slots[i] = slot{name: d.Name, expr: d.Value}
	}

	return s
}

// lookup resolves name as seen by an expression that can see the first
// limit declarations. An exact match wins; otherwise the longest dotted
// prefix that names something is followed into that value.
func (c *call) lookup(name string, limit int) Arg {
	if a, ok := c.lookupName(name, limit); ok {
		return a
	}

	for head, tail := range prefixes(name) {
		a, ok := c.lookupName(head, limit)
		if !ok {
			continue
		}

		raw, ok := lookupPath(a.Raw(), tail)
		if !ok {
			return Arg{}
		}

		return ArgOf(raw)
	}

	return Arg{}
}

// lookupName finds an exact name among the visible declarations and then
// among the arguments. Declarations shadow arguments.
func (c *call) lookupName(name string, limit int) (Arg, bool) {
	if i, ok := c.scope.index[name]; ok && i < limit {
		return resolvedArg(c.resolveSlot(i)), true
	}

	v, ok := c.scope.args[name]
	if !ok {
		return Arg{}, false
	}

	return ArgOf(v), true
}

// resolveSlot evaluates declaration i at most once per call.
func (c *call) resolveSlot(i int) *Value {
	sl := &c.scope.slots[i]
	if sl.resolved {
		return sl.value
	}

	c.log.TraceContext(c.ctx, "resolve declaration",
		slog.String("name", sl.name),
		slog.String("source", sl.expr.Source()),
	)

	v := c.eval(sl.expr, i)
	sl.value, sl.resolved = v, true

	return v
}

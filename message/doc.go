// Package message formats compiled messages against runtime arguments.
//
// A message arrives already compiled to a small data model: a
// [*PatternMessage] with one pattern, or a [*SelectMessage] whose variant is
// chosen by matching selector values against variant keys. Both may declare
// local names. This package never parses message syntax; [Decode] reads the
// data model from YAML or JSON.
//
// # Formatting
//
// [New] validates a message once and binds it to a locale preference list.
// The resulting [*MessageFormat] is immutable and may be used from many
// goroutines:
//
//	mf, err := message.New(msg, []string{"en"})
//	if err != nil {
//		return err // structural problem, see Validate
//	}
//
//	s := mf.Format(message.Args{"count": 3})
//	parts := mf.FormatToParts(message.Args{"count": 3})
//
// Formatting never fails. An expression that cannot be resolved renders as
// its source framed in braces, such as "{$count}", and the error is passed to
// the sink set with [WithErrorSink]. Use a [Collector] to gather them.
//
// # Scope
//
// Variables resolve against the call arguments and the message's
// declarations. Declarations shadow arguments and are evaluated lazily, at
// most once per call, seeing only the arguments and earlier declarations.
// Dotted names prefer the longest key that exists: "user.name" matches an
// argument named "user.name" before the name field of an argument "user".
//
// # Functions
//
// Expressions call functions from a [Registry]. [DefaultRegistry] provides
// number, integer and string; number formats and selects with the locale
// data of golang.org/x/text. Additional functions are added with
// [WithFunctions], shadowing defaults of the same name. Values produced by
// functions may implement [Decomposer] to split into typed parts and
// [KeySelector] to take part in variant selection.
package message

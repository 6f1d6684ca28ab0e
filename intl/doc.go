// Package intl provides locale-aware message functions beyond the
// defaults of package message.
//
// [Functions] returns the set, keyed by function name, for use with
// [message.WithFunctions]:
//
//	mf, err := message.New(msg, []string{"ro"},
//		message.WithFunctions(intl.Functions(
//			intl.WithItemFunction("dative", dative),
//		)),
//	)
//
// Number formatting and plural rules come from golang.org/x/text. That
// module carries no list or calendar data, so list connectors are kept in a
// small table per language (and may be overridden with options), and date
// and time values are laid out with Go reference layouts.
package intl

package message_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/SkeLLLa/messageformat/message"
)

func ExampleMessageFormat_Format() {
	msg := &message.SelectMessage{
		Selectors: []message.Expression{message.Call("number", message.Var("count"))},
		Variants: []message.Variant{
			{Keys: []message.Key{message.LiteralKey("one")}, Value: message.Pattern{
				message.Var("count"), message.Text(" file"),
			}},
			{Keys: []message.Key{message.CatchAll}, Value: message.Pattern{
				message.Var("count"), message.Text(" files"),
			}},
		},
	}

	mf, err := message.New(msg, []string{"en"})
	if err != nil {
		panic(err)
	}

	fmt.Println(mf.Format(message.Args{"count": 1}))
	fmt.Println(mf.Format(message.Args{"count": 2500}))
	// Output:
	// 1 file
	// 2,500 files
}

func ExampleDecode() {
	msg, err := message.Decode(context.Background(), []byte(`
pattern:
  - "Hello, "
  - var: user.name
  - "!"
`))
	if err != nil {
		panic(err)
	}

	s, err := message.Format(msg, []string{"en"}, message.Args{
		"user": map[string]any{"name": "Ana"},
	})
	if err != nil {
		panic(err)
	}

	fmt.Println(s)
	// Output:
	// Hello, Ana!
}

func ExampleCollector() {
	var errs message.Collector

	msg := &message.PatternMessage{Pattern: message.Pattern{
		message.Text("Hi "), message.Var("name"),
	}}

	s, _ := message.Format(msg, []string{"en"}, nil, message.WithErrorSink(errs.Add))

	fmt.Println(s)
	fmt.Println(errs.Err())
	// Output:
	// Hi {$name}
	// $name: unresolved variable: variable not available
}

// Parts keep the source of the expression they came from, so an
// application can adjust text around a value after formatting.
func ExampleMessageFormat_FormatToParts() {
	msg := &message.PatternMessage{Pattern: message.Pattern{
		message.Text("You have "),
		message.Lit("a"),
		message.Text(" "),
		message.Var("item"),
		message.Text("."),
	}}

	mf, err := message.New(msg, []string{"en"})
	if err != nil {
		panic(err)
	}

	for _, item := range []string{"pear", "apple"} {
		parts := mf.FormatToParts(message.Args{"item": item})
		fixArticles(parts)

		var sb strings.Builder
		for _, p := range parts {
			sb.WriteString(p.Value)
		}

		fmt.Println(sb.String())
	}
	// Output:
	// You have a pear.
	// You have an apple.
}

// fixArticles turns the quoted article "a" into "an" when the next
// value starts with a vowel.
func fixArticles(parts []message.Part) {
	for i, p := range parts {
		if p.Type != message.PartValue || p.Source != "|a|" {
			continue
		}

		for _, next := range parts[i+1:] {
			if next.Source == "" {
				continue
			}

			if strings.ContainsAny(next.Value[:1], "aeiouAEIOU") {
				parts[i].Value = "an"
			}

			break
		}
	}
}

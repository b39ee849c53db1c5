package rex

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"
)

// instOpNames mirrors instOp's declaration order for disassembly output.
var instOpNames = [...]string{
	opChar:         "char",
	opEmptyMatch:   "empty",
	opByteClass:    "class",
	opAnyCharNotNL: "any",
	opMatch:        "match",
	opJump:         "jump",
	opSplit:        "split",
	opSave:         "save",
}

// disassemble renders a Program as a canonical, generated-looking Go slice
// literal of its instructions, using jen the way code generators use it
// to emit Go source: here the "generated code" is a debugging
// artifact rather than the compiled matcher itself, but the rendering
// technique — building a jen.Statement field by field — is the same.
func disassemble(p *Program) string {
	f := jen.NewFile("debug")
	f.HeaderComment(fmt.Sprintf("Program: %d instructions, %d slots, start=%d, findStart=%d",
		len(p.Insts), p.NumSlots, p.Start, p.FindStart))
	f.Var().Id("program").Op("=").Index().Id("Instruction").Values(
		jen.Line().Add(instLines(p.Insts)...),
	)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		// Render only fails on malformed token sequences, which would be a
		// bug in instLines, not a runtime condition callers can act on.
		return buf.String()
	}
	return buf.String()
}

func instLines(insts []Instruction) []jen.Code {
	lines := make([]jen.Code, 0, len(insts))
	for i, inst := range insts {
		lines = append(lines, jen.Comment(fmt.Sprintf("%d: %s", i, describeInst(inst))).Line())
	}
	return lines
}

func describeInst(inst Instruction) string {
	name := "?"
	if int(inst.Op) < len(instOpNames) {
		name = instOpNames[inst.Op]
	}
	switch inst.Op {
	case opChar:
		return fmt.Sprintf("%s %q -> %d", name, inst.Char, inst.Out)
	case opByteClass:
		return fmt.Sprintf("%s -> %d", name, inst.Out)
	case opAnyCharNotNL:
		return fmt.Sprintf("%s -> %d", name, inst.Out)
	case opEmptyMatch:
		return fmt.Sprintf("%s(%s) -> %d", name, inst.Assrt, inst.Out)
	case opMatch:
		return name
	case opJump:
		return fmt.Sprintf("%s -> %d", name, inst.Out)
	case opSplit:
		return fmt.Sprintf("%s -> %d, %d", name, inst.Out, inst.Other)
	case opSave:
		return fmt.Sprintf("%s slot %d -> %d", name, inst.Slot, inst.Out)
	default:
		return name
	}
}

// formatExpr renders an Expr tree back out as regex source that Parse
// accepts, for ParseAndDump's round-trip property: every Expr node this
// parser can produce renders to source whose operand nesting needs no
// extra grouping beyond what Capture already supplies, since the parser
// never lets a repeat apply to anything but a Literal, ByteClass,
// AnyCharNotNL, or Capture (isByteClassOperand), and never leaves an
// Alternate unparenthesized except as a whole pattern or as a Capture's
// direct body.
func formatExpr(e *Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e *Expr) {
	switch e.kind {
	case exprEmptyMatch:
		b.WriteString(formatAssertion(e.assertion))
	case exprLiteral:
		b.WriteString(formatClassAtom(e.lit))
	case exprAnyCharNotNL:
		b.WriteByte('.')
	case exprByteClass:
		writeByteClass(b, e.class)
	case exprCapture:
		if e.group.Capturing {
			b.WriteByte('(')
		} else {
			b.WriteString("(?:")
		}
		writeExpr(b, e.group.Expr)
		b.WriteByte(')')
	case exprRepeat:
		writeExpr(b, e.repeatSub)
		b.WriteString(formatRepeatSuffix(e))
	case exprConcat:
		for _, c := range e.children {
			writeExpr(b, c)
		}
	case exprAlternate:
		for i, c := range e.children {
			if i > 0 {
				b.WriteByte('|')
			}
			writeExpr(b, c)
		}
	}
}

func formatAssertion(a Assertion) string {
	switch a {
	case AssertBeginLine:
		return "^"
	case AssertEndLine:
		return "$"
	case AssertWordBoundaryAscii:
		return `\b`
	case AssertNotWordBoundaryAscii:
		return `\B`
	default:
		// AssertNone and AssertBeginText/AssertEndText: the parser only
		// ever produces AssertNone, and only as the whole tree for an
		// empty source, so the empty string round-trips correctly.
		return ""
	}
}

func formatRepeatSuffix(e *Expr) string {
	var suffix string
	switch {
	case !e.repeatMaxOk && e.repeatMin == 0:
		suffix = "*"
	case !e.repeatMaxOk && e.repeatMin == 1:
		suffix = "+"
	case !e.repeatMaxOk:
		suffix = fmt.Sprintf("{%d,}", e.repeatMin)
	case e.repeatMin == 0 && e.repeatMax == 1:
		suffix = "?"
	case e.repeatMin == e.repeatMax:
		suffix = fmt.Sprintf("{%d}", e.repeatMin)
	default:
		suffix = fmt.Sprintf("{%d,%d}", e.repeatMin, e.repeatMax)
	}
	if !e.greedy {
		suffix += "?"
	}
	return suffix
}

// writeByteClass renders s as an explicit, always-positive bracket
// expression: every range endpoint that isPunctuationByte is
// backslash-escaped, which includes '-', ']', and '^', so no range can be
// misread as a literal dash, an early close, or a negation marker
// regardless of where it falls in the class.
func writeByteClass(b *strings.Builder, s *ByteRangeSet) {
	b.WriteByte('[')
	for _, r := range s.Ranges() {
		b.WriteString(formatClassAtom(r.Min))
		if r.Max != r.Min {
			b.WriteByte('-')
			b.WriteString(formatClassAtom(r.Max))
		}
	}
	b.WriteByte(']')
}

// formatClassAtom renders a single byte as regex source: a backslash
// escape for punctuation and common control bytes, an \x hex escape for
// anything else unprintable, or the byte itself.
func formatClassAtom(c byte) string {
	switch {
	case isPunctuationByte(c):
		return "\\" + string(c)
	case c == 0x07:
		return `\a`
	case c == 0x0c:
		return `\f`
	case c == '\n':
		return `\n`
	case c == '\r':
		return `\r`
	case c == '\t':
		return `\t`
	case c == 0x0b:
		return `\v`
	case c >= 0x20 && c < 0x7f:
		return string(c)
	default:
		return fmt.Sprintf(`\x%02x`, c)
	}
}

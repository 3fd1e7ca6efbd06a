// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package codegen

import (
	"fmt"
	"strings"

	"go.steamlang.org/steamlang/compiler"
)

func (g *generator) emitMemberConsts(enum *compiler.Enum, format func(*compiler.Member) string) {
	if len(enum.Members) == 0 {
		return
	}
	width := 0
	for _, member := range enum.Members {
		width = max(width, len(memberConst(enum, member)))
	}
	g.line("")
	g.line("const (")
	for _, member := range enum.Members {
		g.linef("\t%s %s = %s", padRight(memberConst(enum, member), width), enum.Name, format(member))
	}
	g.line(")")
}

func (g *generator) emitEnum(enum *compiler.Enum) {
	g.line("")
	g.linef("type %s %s", enum.Name, enum.Base)
	g.emitMemberConsts(enum, func(member *compiler.Member) string {
		return enum.Base.FormatValue(member.Value)
	})

	g.line("")
	g.linef("var _ steamlang.Codec = (*%s)(nil)", enum.Name)

	g.line("")
	g.linef("func (v %s) String() string {", enum.Name)
	if len(enum.Members) > 0 {
		g.line("\tswitch v {")
		for _, member := range enum.Members {
			g.linef("\tcase %s:", memberConst(enum, member))
			g.linef("\t\treturn %q", member.Name)
		}
		g.line("\t}")
	}
	if enum.Base.IsSigned() {
		g.linef("\treturn %q + strconv.FormatInt(int64(v), 10) + \")\"", enum.Name+"(")
	} else {
		g.linef("\treturn %q + strconv.FormatUint(uint64(v), 10) + \")\"", enum.Name+"(")
	}
	g.line("}")

	g.emitScalarCodec(enum)
}

func (g *generator) emitFlags(flags *compiler.Enum) {
	g.line("")
	g.linef("type %s %s", flags.Name, flags.Base)
	g.emitMemberConsts(flags, func(member *compiler.Member) string {
		if flags.Base.IsSigned() {
			return flags.Base.FormatValue(member.Value)
		}
		return fmt.Sprintf("0x%0*X", flags.Base.Size()*2, member.Value)
	})

	var bits []string
	var bitNames []string
	zeroName := "0"
	for _, member := range flags.Members {
		switch {
		case member.Value == 0:
			zeroName = member.Name
		case member.IsSingleBit():
			bits = append(bits, memberConst(flags, member))
			bitNames = append(bitNames, member.Name)
		}
	}

	g.line("")
	g.linef("var _ steamlang.Codec = (*%s)(nil)", flags.Name)

	g.line("")
	g.line("// Has reports whether every bit of flag is set in v.")
	g.linef("func (v %s) Has(flag %s) bool {", flags.Name, flags.Name)
	g.line("\treturn v&flag == flag")
	g.line("}")

	g.line("")
	g.line("// Members returns the single-bit members set in v, in declaration order.")
	g.linef("func (v %s) Members() []%s {", flags.Name, flags.Name)
	g.linef("\tvar members []%s", flags.Name)
	g.linef("\tfor _, flag := range [...]%s{%s} {", flags.Name, strings.Join(bits, ", "))
	g.line("\t\tif v&flag != 0 {")
	g.line("\t\t\tmembers = append(members, flag)")
	g.line("\t\t}")
	g.line("\t}")
	g.line("\treturn members")
	g.line("}")

	g.line("")
	g.linef("func (v %s) String() string {", flags.Name)
	g.line("\tif v == 0 {")
	g.linef("\t\treturn %q", zeroName)
	g.line("\t}")
	g.line("\tvar names []string")
	for ii, bit := range bits {
		g.linef("\tif v&%s != 0 {", bit)
		g.linef("\t\tnames = append(names, %q)", bitNames[ii])
		g.line("\t}")
	}
	switch len(bits) {
	case 0:
		g.line("\tif rest := v; rest != 0 {")
	case 1:
		g.linef("\tif rest := v &^ %s; rest != 0 {", bits[0])
	default:
		g.linef("\tif rest := v &^ (%s); rest != 0 {", strings.Join(bits, " | "))
	}
	g.linef("\t\thex := strconv.FormatUint(uint64(%s(rest)), 16)", unsignedType(flags.Base))
	g.line("\t\tnames = append(names, \"0x\"+hex)")
	g.line("\t}")
	g.line("\treturn strings.Join(names, \"|\")")
	g.line("}")

	g.emitScalarCodec(flags)
}

func (g *generator) emitScalarCodec(enum *compiler.Enum) {
	name := enum.Name
	method := primitiveMethod(enum.Base)
	size := enum.Base.Size()

	g.line("")
	g.linef("func (v %s) SizeHint() int {", name)
	g.linef("\treturn %d", size)
	g.line("}")

	g.line("")
	g.linef("func (v %s) AppendTo(buf []uint8) []uint8 {", name)
	g.linef("\treturn steamlang.Append%s(buf, %s(v))", method, enum.Base)
	g.line("}")

	g.line("")
	g.linef("func (v %s) Encode() []uint8 {", name)
	g.linef("\treturn v.AppendTo(make([]uint8, 0, %d))", size)
	g.line("}")

	g.line("")
	g.linef("func (v *%s) DecodeFrom(r *steamlang.Reader) {", name)
	g.linef("\t*v = %s(r.%s())", name, method)
	g.line("}")

	g.line("")
	g.linef("func (v *%s) Decode(buf []uint8) error {", name)
	g.line("\treturn steamlang.Decode(v, buf)")
	g.line("}")
}

func (g *generator) emitMessage(msg *compiler.Message) {
	g.line("")
	if len(msg.Fields) == 0 {
		g.linef("type %s struct{}", msg.Name)
	} else {
		width := 0
		for _, field := range msg.Fields {
			width = max(width, len(exportName(field.Name)))
		}
		g.linef("type %s struct {", msg.Name)
		for _, field := range msg.Fields {
			g.linef("\t%s %s", padRight(exportName(field.Name), width), g.fieldType(field))
		}
		g.line("}")
	}

	g.line("")
	if msg.Code != nil {
		g.linef("var _ Message = (*%s)(nil)", msg.Name)

		g.line("")
		g.linef("func (*%s) Code() uint32 {", msg.Name)
		if msg.Code.Enum != "" {
			g.linef("\treturn uint32(%s_%s)", msg.Code.Enum, msg.Code.Member)
		} else {
			g.linef("\treturn %d", msg.Code.Value)
		}
		g.line("}")

		g.line("")
		g.linef("func (*%s) isMessage() {}", msg.Name)
	} else {
		g.linef("var _ steamlang.Codec = (*%s)(nil)", msg.Name)
	}

	g.line("")
	g.linef("func (m *%s) SizeHint() int {", msg.Name)
	g.linef("\treturn %d", msg.Size)
	g.line("}")

	g.line("")
	g.linef("func (m *%s) AppendTo(buf []uint8) []uint8 {", msg.Name)
	for _, field := range msg.Fields {
		g.emitFieldAppend(field)
	}
	g.line("\treturn buf")
	g.line("}")

	g.line("")
	if len(msg.Fields) == 0 {
		g.linef("func (m *%s) DecodeFrom(r *steamlang.Reader) {}", msg.Name)
	} else {
		g.linef("func (m *%s) DecodeFrom(r *steamlang.Reader) {", msg.Name)
		for _, field := range msg.Fields {
			g.emitFieldDecode(field)
		}
		g.line("}")
	}

	g.line("")
	g.linef("func (m *%s) Encode() []uint8 {", msg.Name)
	g.line("\treturn m.AppendTo(make([]uint8, 0, m.SizeHint()))")
	g.line("}")

	g.line("")
	g.linef("func (m *%s) Decode(buf []uint8) error {", msg.Name)
	g.line("\treturn steamlang.Decode(m, buf)")
	g.line("}")

	if target, source := msg.JobFields(); target != nil {
		g.emitJobHeader(msg, target, source)
	}
}

func (g *generator) emitJobHeader(msg *compiler.Message, target, source *compiler.Field) {
	targetField := "m." + exportName(target.Name)
	sourceField := "m." + exportName(source.Name)

	g.line("")
	g.linef("var _ steamlang.JobHeader = (*%s)(nil)", msg.Name)

	g.line("")
	g.linef("func (m *%s) TargetJob() uint64 {", msg.Name)
	g.linef("\treturn %s", targetField)
	g.line("}")

	g.line("")
	g.linef("func (m *%s) SourceJob() uint64 {", msg.Name)
	g.linef("\treturn %s", sourceField)
	g.line("}")

	g.line("")
	g.linef("func (m *%s) SetTargetJob(id uint64) {", msg.Name)
	g.linef("\t%s = id", targetField)
	g.line("}")

	g.line("")
	g.linef("func (m *%s) SetSourceJob(id uint64) {", msg.Name)
	g.linef("\t%s = id", sourceField)
	g.line("}")
}

func isByteArray(field *compiler.Field) bool {
	return field.IsArray() &&
		field.Type.Kind == compiler.TypePrimitive &&
		field.Type.Primitive == compiler.PrimitiveUint8
}

func (g *generator) emitFieldAppend(field *compiler.Field) {
	name := "m." + exportName(field.Name)
	switch {
	case isByteArray(field) && field.Open:
		g.linef("\tbuf = append(buf, %s...)", name)
	case isByteArray(field):
		g.linef("\tbuf = append(buf, %s[:]...)", name)
	case field.ArrayLen > 0 && field.Type.Kind == compiler.TypePrimitive:
		g.linef("\tfor _, v := range %s {", name)
		g.linef("\t\tbuf = steamlang.Append%s(buf, v)", primitiveMethod(field.Type.Primitive))
		g.line("\t}")
	case field.ArrayLen > 0:
		g.linef("\tfor ii := range %s {", name)
		g.linef("\t\tbuf = %s[ii].AppendTo(buf)", name)
		g.line("\t}")
	case field.Type.Kind == compiler.TypePrimitive:
		g.linef("\tbuf = steamlang.Append%s(buf, %s)", primitiveMethod(field.Type.Primitive), name)
	default:
		g.linef("\tbuf = %s.AppendTo(buf)", name)
	}
}

func (g *generator) emitFieldDecode(field *compiler.Field) {
	name := "m." + exportName(field.Name)
	switch {
	case isByteArray(field) && field.Open:
		g.linef("\t%s = r.Rest()", name)
	case isByteArray(field):
		g.linef("\tr.Bytes(%s[:])", name)
	case field.ArrayLen > 0 && field.Type.Kind == compiler.TypePrimitive:
		g.linef("\tfor ii := range %s {", name)
		g.linef("\t\t%s[ii] = r.%s()", name, primitiveMethod(field.Type.Primitive))
		g.line("\t}")
	case field.ArrayLen > 0:
		g.linef("\tfor ii := range %s {", name)
		g.linef("\t\t%s[ii].DecodeFrom(r)", name)
		g.line("\t}")
	case field.Type.Kind == compiler.TypePrimitive:
		g.linef("\t%s = r.%s()", name, primitiveMethod(field.Type.Primitive))
	default:
		g.linef("\t%s.DecodeFrom(r)", name)
	}
}

func (g *generator) emitRegistry() {
	g.line("")
	if len(g.schema.Dispatch) == 0 {
		g.line("var registry = steamlang.MustRegistry[Message]()")
	} else {
		g.line("var registry = steamlang.MustRegistry[Message](")
		for _, entry := range g.schema.Dispatch {
			g.linef(
				"\tsteamlang.Entry[Message]{Code: %d, Name: %q, Decode: steamlang.DecodeFunc[Message, %s]()},",
				entry.Code, entry.Message, entry.Message,
			)
		}
		g.line(")")
	}

	g.line("")
	g.line("// Registry returns the registry of every message with a dispatch code.")
	g.line("func Registry() *steamlang.Registry[Message] {")
	g.line("\treturn registry")
	g.line("}")

	g.line("")
	g.line("// DecodeDispatch decodes buf as the message registered for code.")
	g.line("func DecodeDispatch(code uint32, buf []uint8) (Message, error) {")
	g.line("\treturn registry.Decode(code, buf)")
	g.line("}")
}

package eruntime

import "strings"

// expandForm renders a PRINTFORM template in one left-to-right pass.
// %expr% and {expr} are replaced by their value; a segment that is
// unterminated or does not parse is copied through unchanged.
func (vm *VM) expandForm(arg string) (string, error) {
	tmpl := decodeCommandCharSeq(arg)
	var b strings.Builder
	for i := 0; i < len(tmpl); {
		var closer byte
		switch tmpl[i] {
		case '%':
			closer = '%'
		case '{':
			closer = '}'
		default:
			b.WriteByte(tmpl[i])
			i++
			continue
		}
		j := strings.IndexByte(tmpl[i+1:], closer)
		if j < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		j += i + 1
		inner := tmpl[i+1 : j]
		if strings.TrimSpace(inner) == "" {
			b.WriteString(tmpl[i : j+1])
			i = j + 1
			continue
		}
		expr, err := vm.parseArg(inner)
		if err != nil {
			b.WriteString(tmpl[i : j+1])
			i = j + 1
			continue
		}
		v, err := vm.evalExpr(expr)
		if err != nil {
			return "", err
		}
		b.WriteString(v.String())
		i = j + 1
	}
	return b.String(), nil
}

// decodeCommandCharSeq resolves the backslash escapes allowed in command
// arguments: \s space, \S ideographic space, \t tab, \n newline.
func decodeCommandCharSeq(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	b := strings.Builder{}
	escape := false
	for _, r := range raw {
		if escape {
			switch r {
			case 's':
				b.WriteRune(' ')
			case 'S':
				b.WriteRune('\u3000')
			case 't':
				b.WriteRune('\t')
			case 'n':
				b.WriteRune('\n')
			default:
				b.WriteRune(r)
			}
			escape = false
			continue
		}
		if r == '\\' {
			escape = true
			continue
		}
		b.WriteRune(r)
	}
	if escape {
		b.WriteRune('\\')
	}
	return b.String()
}

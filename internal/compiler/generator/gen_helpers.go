package generator

import (
	"fmt"
	"strings"
)

// genHelpers generates the static helper functions the program needs: a
// reader per sensor and the JSON encoder behind json().
func (g *Generator) genHelpers() string {
	var b strings.Builder

	if len(g.syms.sensors) == 0 && !g.syms.needsJSON {
		return ""
	}

	b.WriteString("// ========== Helper Functions ==========\n\n")

	for _, s := range g.syms.sensors {
		if s.Type != "" {
			fmt.Fprintf(&b, "// read_%s samples the %s sensor on %s\n", s.Name, s.Type, s.Pin)
		}
		fmt.Fprintf(&b, "static float read_%s(void *context) {\n", s.Name)
		b.WriteString("    (void)context;\n")
		fmt.Fprintf(&b, "    return nrx_adc_read_voltage(%s);\n", pinExpr(s.Pin))
		b.WriteString("}\n\n")
	}

	if g.syms.needsJSON {
		b.WriteString("// json_number renders a value as a JSON number; the buffer is reused\n")
		b.WriteString("// by the next call\n")
		b.WriteString("static const char *json_number(float value) {\n")
		b.WriteString("    static char buf[32];\n")
		b.WriteString("    snprintf(buf, sizeof(buf), \"%g\", (double)value);\n")
		b.WriteString("    return buf;\n")
		b.WriteString("}\n\n")
	}

	return b.String()
}

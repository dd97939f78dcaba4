package generator

import "strings"

// genIncludes generates the #include block
func (g *Generator) genIncludes() string {
	var b strings.Builder

	b.WriteString("#include \"runtime/core/scheduler.h\"\n")
	b.WriteString("#include \"runtime/core/safety.h\"\n")
	b.WriteString("#include \"runtime/hal/hal.h\"\n")

	if g.syms.net != nil {
		b.WriteString("#include \"runtime/net/mqtt.h\"\n")
	}

	// -FLT_MAX / FLT_MAX stand in for a missing min or max bound
	if len(g.syms.limits) > 0 {
		b.WriteString("#include <float.h>\n")
	}

	if g.syms.needsMath {
		b.WriteString("#include <math.h>\n")
	}

	b.WriteString("#include <stdbool.h>\n")
	b.WriteString("#include <stdint.h>\n")

	if g.syms.needsJSON {
		b.WriteString("#include <stdio.h>\n")
	}

	// strcmp for string comparisons, strlen and memcpy for mqtt payloads
	if g.syms.needsString {
		b.WriteString("#include <string.h>\n")
	}

	return b.String()
}

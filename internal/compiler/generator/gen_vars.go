package generator

import (
	"fmt"
	"strings"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/utils"
)

// genDefines generates the pin guards and the GPIO, bus address and topic
// macros.
func (g *Generator) genDefines() string {
	var b strings.Builder

	// Named pins come from the board support header
	if pins := g.syms.namedPins(); len(pins) > 0 {
		for _, pin := range pins {
			fmt.Fprintf(&b, "#ifndef %s\n", pinMacro(pin))
			fmt.Fprintf(&b, "#error \"board does not define pin %s\"\n", pin)
			b.WriteString("#endif\n")
		}
		b.WriteString("\n")
	}

	if len(g.syms.motors) > 0 {
		b.WriteString("#ifndef NRX_PIN_NONE\n")
		b.WriteString("#define NRX_PIN_NONE 0xFF\n")
		b.WriteString("#endif\n\n")
	}

	for _, gp := range g.syms.gpioOrder {
		fmt.Fprintf(&b, "#define %s %s\n", gpioMacro(gp.Name), pinExpr(gp.Pin))
	}
	for _, bus := range g.syms.buses {
		if bus.HasAddress {
			fmt.Fprintf(&b, "#define BUS_%s_ADDR %d\n", utils.ToUpperSnake(bus.Name), bus.Address)
		}
	}
	for _, topic := range g.syms.topics {
		fmt.Fprintf(&b, "#define %s %s\n", topicMacro(topic.Name), utils.CString(topic.Path))
	}

	return b.String()
}

// busDrivers maps a bus kind to its runtime handle type and init call.
var busDrivers = map[ast.BusKind]struct {
	handle string
	init   string
}{
	ast.BusI2C:  {"nrx_i2c_t", "nrx_i2c_init(0, 400000)"},
	ast.BusSPI:  {"nrx_spi_t", "nrx_spi_init(0, 1000000)"},
	ast.BusUART: {"nrx_uart_t", "nrx_uart_init(0, 115200)"},
}

// genHandles generates the static hardware handles
func (g *Generator) genHandles() string {
	var b strings.Builder

	for _, m := range g.syms.motors {
		fmt.Fprintf(&b, "static nrx_motor_t motor_%s;\n", m.Name)
	}
	for _, s := range g.syms.servos {
		fmt.Fprintf(&b, "static nrx_servo_t servo_%s;\n", s.Name)
	}
	for _, s := range g.syms.sensors {
		fmt.Fprintf(&b, "static nrx_sensor_t sensor_%s;\n", s.Name)
	}
	for _, bus := range g.syms.buses {
		drv, ok := busDrivers[bus.Kind]
		if !ok {
			g.fail(bus.Pos(), "%s buses have no runtime driver", bus.Kind)
			continue
		}
		fmt.Fprintf(&b, "static %s *bus_%s;\n", drv.handle, bus.Name)
	}
	if g.syms.net != nil {
		b.WriteString("static nrx_mqtt_client_t *mqtt_client;\n")
	}

	return b.String()
}

// genHardwareInit generates the body lines of main that bring up each
// declared device.
func (g *Generator) genHardwareInit(w *cwriter) {
	for _, m := range g.syms.motors {
		w.line("nrx_motor_init(&motor_%s, %s, NRX_PIN_NONE, NRX_PIN_NONE);", m.Name, pinExpr(m.Pin))
	}
	for _, s := range g.syms.servos {
		w.line("nrx_servo_init(&servo_%s, %s);", s.Name, pinExpr(s.Pin))
	}
	for _, s := range g.syms.sensors {
		w.line("nrx_adc_init(%s);", pinExpr(s.Pin))
		w.line("nrx_sensor_init(&sensor_%s, NULL, read_%s);", s.Name, s.Name)
	}
	for _, gp := range g.syms.gpioOrder {
		w.line("nrx_gpio_init(%s, %s);", gpioMacro(gp.Name), gpioModes[gp.Mode])
	}
	for _, bus := range g.syms.buses {
		if drv, ok := busDrivers[bus.Kind]; ok {
			w.line("bus_%s = %s;", bus.Name, drv.init)
		}
	}
}

var gpioModes = map[ast.PinMode]string{
	ast.PinInput:         "NRX_GPIO_MODE_INPUT",
	ast.PinOutput:        "NRX_GPIO_MODE_OUTPUT",
	ast.PinInputPullup:   "NRX_GPIO_MODE_INPUT_PULLUP",
	ast.PinInputPulldown: "NRX_GPIO_MODE_INPUT_PULLDOWN",
}

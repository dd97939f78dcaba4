package generator

import (
	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/utils"
)

// payloadBufferSize bounds the copy of an incoming mqtt payload handed to a
// message handler as a NUL-terminated string.
const payloadBufferSize = 256

// genHandlers generates the when blocks, the mqtt dispatcher and the mqtt
// polling task.
func (g *Generator) genHandlers() string {
	w := &cwriter{}

	for _, ev := range g.syms.events {
		switch ev.Trigger {
		case ast.TriggerMessage:
			g.genMessageHandler(w, ev)
		case ast.TriggerGPIO:
			g.genGPIOHandler(w, ev)
		default:
			panic("generator: unexpected trigger")
		}
	}

	if g.syms.hasMessageHandlers() && g.syms.net != nil {
		g.genDispatcher(w)
	}
	if g.syms.net != nil {
		w.line("static void mqtt_poll(void *context) {")
		w.depth++
		w.line("(void)context;")
		w.line("nrx_mqtt_loop(mqtt_client);")
		w.depth--
		w.line("}")
		w.blank()
	}

	return w.String()
}

func (g *Generator) genMessageHandler(w *cwriter, ev *ast.EventDecl) {
	if g.syms.net == nil {
		g.fail(ev.Pos(), "when message requires a net mqtt block")
	}
	if g.syms.kinds[ev.Source] != symTopic {
		g.fail(ev.Pos(), "when message %s: %s is not a declared topic", ev.Source, ev.Source)
	}

	g.locals = make(map[string]ctype)
	name := g.syms.handlerNames[ev]
	if ev.Var != "" {
		g.locals[ev.Var] = cString
		w.line("static void %s(const char *%s) {", name, utils.CIdent(ev.Var))
	} else {
		w.line("static void %s(void) {", name)
	}
	w.depth++
	g.block(w, ev.Handler)
	w.depth--
	w.line("}")
	w.blank()
}

// genGPIOHandler lowers when gpio into a polled rising-edge detector; the
// runtime has no pin interrupt API.
func (g *Generator) genGPIOHandler(w *cwriter, ev *ast.EventDecl) {
	source := ev.Source
	if gp, ok := g.syms.gpioSource(ev.Source); ok {
		source = gp.Name
	} else {
		g.fail(ev.Pos(), "when gpio %s: no gpio is declared with that name or pin", ev.Source)
	}

	g.locals = make(map[string]ctype)
	name := g.syms.handlerNames[ev]
	w.line("static void %s(void *context) {", name)
	w.depth++
	w.line("(void)context;")
	w.line("static nrx_gpio_state_t last = NRX_GPIO_LOW;")
	w.line("nrx_gpio_state_t level = nrx_gpio_read(%s);", gpioMacro(source))
	w.line("bool rising = level == NRX_GPIO_HIGH && last == NRX_GPIO_LOW;")
	w.line("last = level;")
	w.line("if (!rising) {")
	w.line("    return;")
	w.line("}")
	if ev.Var != "" {
		g.locals[ev.Var] = cFloat
		w.line("float %s = (float)level;", utils.CIdent(ev.Var))
	}
	g.block(w, ev.Handler)
	w.depth--
	w.line("}")
	w.blank()
}

// genDispatcher routes incoming mqtt messages to the handlers of their
// topic.
func (g *Generator) genDispatcher(w *cwriter) {
	w.line("static void on_mqtt_message(const nrx_mqtt_message_t *message, void *user_data) {")
	w.depth++
	w.line("(void)user_data;")
	w.line("char payload[%d];", payloadBufferSize)
	w.line("size_t n = message->payload_len < sizeof(payload) - 1 ? message->payload_len : sizeof(payload) - 1;")
	w.line("memcpy(payload, message->payload, n);")
	w.line("payload[n] = '\\0';")
	w.blank()
	for _, ev := range g.syms.events {
		if ev.Trigger != ast.TriggerMessage {
			continue
		}
		w.line("if (strcmp(message->topic, %s) == 0) {", topicMacro(ev.Source))
		w.depth++
		if ev.Var != "" {
			w.line("%s(payload);", g.syms.handlerNames[ev])
		} else {
			w.line("%s();", g.syms.handlerNames[ev])
		}
		w.depth--
		w.line("}")
	}
	w.depth--
	w.line("}")
	w.blank()
}

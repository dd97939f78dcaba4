package generator

import (
	"github.com/neurox-lang/neurox/internal/compiler/ast"
	"github.com/neurox-lang/neurox/internal/compiler/utils"
)

// mqttPollHz is how often the generated program services the mqtt client.
const mqttPollHz = 50

// genMQTTInit emits the client configuration, connection and topic
// subscriptions inside main.
func (g *Generator) genMQTTInit(w *cwriter) {
	net := g.syms.net
	if net == nil {
		return
	}

	w.line("nrx_mqtt_config_t mqtt_config = {")
	w.depth++
	w.line(".broker_url = %s,", utils.CString(net.Broker))
	if net.ClientID != "" {
		w.line(".client_id = %s,", utils.CString(net.ClientID))
	}
	w.line(".use_tls = %t,", net.TLS)
	w.line(".keepalive_sec = 60,")
	w.line(".clean_session = true,")
	if g.syms.hasMessageHandlers() {
		w.line(".message_callback = on_mqtt_message,")
	}
	w.depth--
	w.line("};")
	w.line("mqtt_client = nrx_mqtt_create(&mqtt_config);")
	w.line("nrx_mqtt_connect(mqtt_client);")

	subscribed := make(map[string]bool)
	for _, ev := range g.syms.events {
		if ev.Trigger != ast.TriggerMessage || subscribed[ev.Source] {
			continue
		}
		subscribed[ev.Source] = true
		w.line("nrx_mqtt_subscribe(mqtt_client, %s, NRX_MQTT_QOS_%d);", topicMacro(ev.Source), net.QoS)
	}

	w.line("nrx_task_schedule_periodic(nrx_task_create(\"mqtt\", mqtt_poll, NULL, NRX_PRIORITY_MEDIUM), %d);", mqttPollHz)
}

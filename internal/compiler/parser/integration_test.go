package parser

import (
	"strings"
	"testing"

	"github.com/neurox-lang/neurox/internal/compiler/ast"
)

const integrationSource = `// Two-wheel rover with an arm and remote control
robot Rover {
  motor left on M1
  motor right on M2
  servo arm on 9
  sensor front on A0 type ultrasonic
  gpio led on 13 mode Output
  gpio button on 2 mode InputPullup
  bus imu on I2C @ 104

  net mqtt {
    broker "mqtts://broker.example.com:8883"
    client_id "rover-01"
    qos 1
  }
  topic cmd on "rover/cmd"
  topic status on "rover/status"

  limits {
    speed max 80Percent
    distance min 15cm
    turn_rate max 90deg/s
  }

  task drive(speed: Percent, duration: ms) {
    left.power = speed
    right.power = speed
    wait(duration)
    left.power = 0Percent
    right.power = 0Percent
  }

  task avoid() {
    let d = front.value
    if d < 20cm && !(d == 0) {
      stop()
      turn(clockwise, 90deg)
    } else if d < 40cm {
      drive(30Percent, 200ms)
    } else {
      return
    }
  }

  schedule main @ 10Hz priority HIGH {
    avoid()
    led = HIGH
  }

  schedule telemetry @ 1Hz priority LOW {
    publish(status, json(front.value))
  }

  when message cmd as msg {
    if msg == "stop" {
      estop()
    }
  }

  when gpio button {
    arm.angle = 45deg
  }
}
`

func TestRoverIntegration(t *testing.T) {
	prog := parse(t, integrationSource)

	if prog.Name != "Rover" {
		t.Fatalf("expected robot Rover, got %q", prog.Name)
	}

	// === VERIFY DECLARATION ORDER ===
	expectedKinds := []string{
		"motor", "motor", "servo", "sensor", "gpio", "gpio", "bus",
		"net", "topic", "topic",
		"limits",
		"task", "task",
		"schedule", "schedule",
		"when", "when",
	}
	if len(prog.Decls) != len(expectedKinds) {
		t.Fatalf("expected %d declarations, got %d", len(expectedKinds), len(prog.Decls))
	}
	for i, kind := range expectedKinds {
		if got := prog.Decls[i].TokenLiteral(); got != kind {
			t.Errorf("decl %d: expected %s, got %s", i, kind, got)
		}
	}

	// === VERIFY NETWORK ===
	net := prog.Decls[7].(*ast.NetDecl)
	if !net.TLS || net.QoS != 1 || net.ClientID != "rover-01" {
		t.Errorf("unexpected net block %+v", net)
	}

	// === VERIFY TASKS ===
	drive := prog.Decls[11].(*ast.TaskDecl)
	if len(drive.Params) != 2 || drive.Params[1].Type.Name != "ms" {
		t.Errorf("unexpected drive params %+v", drive.Params)
	}
	if len(drive.Body.Stmts) != 5 {
		t.Errorf("expected 5 statements in drive, got %d", len(drive.Body.Stmts))
	}

	avoid := prog.Decls[12].(*ast.TaskDecl)
	if len(avoid.Body.Stmts) != 2 {
		t.Fatalf("expected 2 statements in avoid, got %d", len(avoid.Body.Stmts))
	}
	ifStmt := avoid.Body.Stmts[1].(*ast.IfStmt)
	cond := ifStmt.Cond.(*ast.BinaryExpr)
	if cond.Op != "&&" {
		t.Errorf("expected && at the top of the condition, got %s", cond.Op)
	}
	turn := ifStmt.Then.Stmts[1].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	if len(turn.Args) != 2 {
		t.Errorf("expected turn(clockwise, 90deg), got %s", ast.String(turn))
	}

	// === VERIFY SCHEDULES ===
	main := prog.Decls[13].(*ast.ScheduleDecl)
	telemetry := prog.Decls[14].(*ast.ScheduleDecl)
	if main.Priority != ast.PriorityHigh || telemetry.Priority != ast.PriorityLow {
		t.Errorf("priorities: %s, %s", main.Priority, telemetry.Priority)
	}

	// === VERIFY PRINTER ===
	dump := ast.String(prog)
	for _, want := range []string{
		"Robot: Rover",
		"  Motor: left on M1",
		"  Task: drive",
		"    Param: speed: Percent",
		"      Assign: left.power =",
		"  Schedule: main priority HIGH",
		"  When: message cmd as msg",
		"  When: gpio button",
	} {
		if !strings.Contains(dump, want+"\n") {
			t.Errorf("dump missing %q:\n%s", want, dump)
		}
	}
}

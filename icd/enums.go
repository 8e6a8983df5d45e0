package icd

// InputMode is the command source reported in statusA.
type InputMode int64

const (
	InputModeStandby InputMode = 0
	InputModePWM     InputMode = 1
	InputModeRPM     InputMode = 2
)

func (m InputMode) String() string {
	switch m {
	case InputModeStandby:
		return "standby"
	case InputModePWM:
		return "pwm"
	case InputModeRPM:
		return "rpm"
	default:
		return "unknown"
	}
}

// FeedbackMode is the feedback source reported in statusA.
type FeedbackMode int64

const (
	FeedbackModeNone       FeedbackMode = 0
	FeedbackModeRPM        FeedbackMode = 1
	FeedbackModePulseWidth FeedbackMode = 2
	FeedbackModeDutyCycle  FeedbackMode = 3
	FeedbackModeAnalog     FeedbackMode = 4
)

func (m FeedbackMode) String() string {
	switch m {
	case FeedbackModeNone:
		return "none"
	case FeedbackModeRPM:
		return "rpm"
	case FeedbackModePulseWidth:
		return "pulse_width"
	case FeedbackModeDutyCycle:
		return "duty_cycle"
	case FeedbackModeAnalog:
		return "analog"
	default:
		return "unknown"
	}
}

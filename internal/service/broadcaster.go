package service

import "mindscreen/internal/model"

// AlertBroadcaster pushes raised alerts to live reviewers (avoids import cycle with ws)
type AlertBroadcaster interface {
	BroadcastAlert(alert *model.AlertRecord)
}

package predictionHandler

import (
	"context"
	"time"

	"TumorDetector/internal/api/prediction"
	"TumorDetector/internal/entity"
	"TumorDetector/internal/middleware"
	contextPkg "TumorDetector/pkg/context"
	"TumorDetector/pkg/log"
	"TumorDetector/pkg/notify"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
)

// handlePredictWebSocket serves one predict request per text frame and replies
// with a PredictResponse frame.
func (h *PredictionHandler) handlePredictWebSocket(c *websocket.Conn) {
	sessionID, _ := c.Locals(middleware.SessionIDKey).(string)
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	clientIP, _ := c.Locals(middleware.ClientIPKey).(string)

	h.log.WithField("session_id", sessionID).Info("Prediction WebSocket client connected")
	defer h.log.WithField("session_id", sessionID).Info("Prediction WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("Prediction WebSocket error: %v", err)
			} else {
				h.log.Info("Prediction WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.TextMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		ctx := contextPkg.WithSessionID(contextPkg.WithRequestID(context.Background(), requestID), sessionID)
		reply := h.predictFrame(ctx, message, sessionID, clientIP)

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(reply); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}

		if err := c.SetWriteDeadline(time.Time{}); err != nil {
			h.log.Errorf("Error resetting write deadline: %v", err)
			break
		}
	}
}

// predictFrame spends one rate limit token per frame, the same budget as the
// HTTP predict routes.
func (h *PredictionHandler) predictFrame(ctx context.Context, message []byte, sessionID, clientIP string) prediction.PredictResponse {
	ctx, cancel := context.WithTimeout(ctx, predictTimeout)
	defer cancel()

	recorder := notify.NewRecorder()

	if !h.middleware.Allow(clientIP) {
		recorder.Notify(ctx, middleware.ErrTooManyRequests.Error())
		return prediction.PredictResponse{Results: []entity.PredictionOutcome{}, Notifications: recorder.Messages()}
	}

	var req prediction.PredictRequest
	if err := jsoniter.Unmarshal(message, &req); err != nil {
		recorder.Notify(ctx, "Invalid request: "+err.Error())
		return prediction.PredictResponse{Results: []entity.PredictionOutcome{}, Notifications: recorder.Messages()}
	}
	if err := h.validator.Struct(req); err != nil {
		recorder.Notify(ctx, "Validation failed: "+err.Error())
		return prediction.PredictResponse{Results: []entity.PredictionOutcome{}, Notifications: recorder.Messages()}
	}

	images, err := h.resolveImages(ctx, req, sessionID)
	if err != nil {
		log.WithRequestID(ctx).Errorf("Error loading session images: %v", err)
		images = nil
	}

	outcomes := h.predictionService.Predict(ctx, images, recorder)
	return prediction.PredictResponse{
		Results:       outcomes,
		Notifications: recorder.Messages(),
	}
}

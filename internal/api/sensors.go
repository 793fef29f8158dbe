package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/idilsaglam/coolsave/internal/model"
)

// LatestReading fetches the most recent fridge climate sample.
func (c *Client) LatestReading(ctx context.Context) (model.SensorReading, error) {
	const op = "latest reading"
	data, err := c.do(ctx, op, http.MethodGet, c.url(pathSensors), nil)
	if err != nil {
		return model.SensorReading{}, err
	}
	var r model.SensorReading
	if err := decode(op, data, &r); err != nil {
		return model.SensorReading{}, err
	}
	return r, nil
}

// Health calls the liveness probe and returns its body verbatim.
// The shape is server-defined; callers only log it.
func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	data, err := c.do(ctx, "health", http.MethodGet, c.url(pathHealth), nil)
	if err != nil {
		return nil, err
	}
	c.log.Info("health check", "body", string(data))
	return json.RawMessage(data), nil
}

package queue

import (
    "context"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/ev-charge-hub/internal/schedule"
)

// RedisSensor adapts the consumer's cached detections into the sensor
// hook consumed by status derivation. A missing or unreadable key maps
// to SensorUnknown so reservation displays never depend on Redis
// availability.
func RedisSensor(rdb *redis.Client) schedule.SensorFunc {
    if rdb == nil {
        return func(string) schedule.SensorStatus { return schedule.SensorUnknown }
    }
    return func(reservationID string) schedule.SensorStatus {
        ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
        defer cancel()
        val, err := rdb.Get(ctx, "sensor:reservation:"+reservationID).Result()
        if err != nil {
            return schedule.SensorUnknown
        }
        if val == "detected" {
            return schedule.SensorDetected
        }
        return schedule.SensorAbsent
    }
}

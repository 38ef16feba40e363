package k4abt

import "github.com/dialup-inc/kinect/k4a"

// Functions is the k4abt function table.
type Functions struct {
	TrackerCreate               func(cal *k4a.Calibration, config RawTrackerConfiguration, tracker *TrackerHandle) k4a.Result `sym:"k4abt_tracker_create"`
	TrackerDestroy              func(tracker TrackerHandle)                                                              `sym:"k4abt_tracker_destroy"`
	TrackerSetTemporalSmoothing func(tracker TrackerHandle, factor float32)                                              `sym:"k4abt_tracker_set_temporal_smoothing"`
	TrackerEnqueueCapture       func(tracker TrackerHandle, capture k4a.CaptureHandle, timeoutMS int32) k4a.WaitResult   `sym:"k4abt_tracker_enqueue_capture"`
	TrackerPopResult            func(tracker TrackerHandle, frame *FrameHandle, timeoutMS int32) k4a.WaitResult          `sym:"k4abt_tracker_pop_result"`
	TrackerShutdown             func(tracker TrackerHandle)                                                              `sym:"k4abt_tracker_shutdown"`

	FrameRelease                func(frame FrameHandle)                                           `sym:"k4abt_frame_release"`
	FrameReference              func(frame FrameHandle)                                           `sym:"k4abt_frame_reference"`
	FrameGetNumBodies           func(frame FrameHandle) uint32                                    `sym:"k4abt_frame_get_num_bodies"`
	FrameGetBodySkeleton        func(frame FrameHandle, index uint32, skeleton *Skeleton) k4a.Result `sym:"k4abt_frame_get_body_skeleton"`
	FrameGetBodyID              func(frame FrameHandle, index uint32) uint32                      `sym:"k4abt_frame_get_body_id"`
	FrameGetDeviceTimestampUsec func(frame FrameHandle) uint64                                    `sym:"k4abt_frame_get_device_timestamp_usec"`
	FrameGetSystemTimestampNsec func(frame FrameHandle) uint64                                    `sym:"k4abt_frame_get_system_timestamp_nsec,optional"`
	FrameGetBodyIndexMap        func(frame FrameHandle) k4a.ImageHandle                           `sym:"k4abt_frame_get_body_index_map"`
	FrameGetCapture             func(frame FrameHandle) k4a.CaptureHandle                         `sym:"k4abt_frame_get_capture"`
}

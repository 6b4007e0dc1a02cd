package thermal

import (
	"testing"

	tinygoerrors "github.com/ralvarezdev/tinygo-errors"
	tinygologger "github.com/ralvarezdev/tinygo-logger"
	. "github.com/smartystreets/goconvey/convey"
)

type testSensor struct {
	configErr tinygoerrors.ErrorCode
	readErr   tinygoerrors.ErrorCode
	frames    []Frame
	reads     int
}

func (s *testSensor) Configure() tinygoerrors.ErrorCode {
	return s.configErr
}

// ReadFrame returns the scripted frames in order and repeats the last one
func (s *testSensor) ReadFrame(frame *Frame) tinygoerrors.ErrorCode {
	if s.readErr != tinygoerrors.ErrorCodeNil {
		return s.readErr
	}
	index := s.reads
	if index >= len(s.frames) {
		index = len(s.frames) - 1
	}
	*frame = s.frames[index]
	s.reads++
	return tinygoerrors.ErrorCodeNil
}

func uniformFrame(temperature float64) Frame {
	var frame Frame
	for i := range frame {
		frame[i] = temperature
	}
	return frame
}

func frameWithHotPixels(ambient float64, hot ...float64) Frame {
	frame := uniformFrame(ambient)
	for i, temperature := range hot {
		frame[i*7] = temperature
	}
	return frame
}

type transitionRecorder struct {
	statuses []Status
}

func (r *transitionRecorder) record(status Status) {
	r.statuses = append(r.statuses, status)
}

func createTestDetector(sensor *testSensor, recorder *transitionRecorder) *DefaultHandler {
	h, errCode := NewDefaultHandler(sensor, 6.0, 3, 10, 0, 0, recorder.record, tinygologger.NewDefaultLogger(128))
	if errCode != tinygoerrors.ErrorCodeNil {
		panic("unable to create test detector")
	}
	return h
}

func TestNewDefaultHandler(t *testing.T) {
	Convey("constructor validation", t, func() {
		sensor := &testSensor{}

		Convey("nil sensor is rejected", func() {
			_, errCode := NewDefaultHandler(nil, 6, 3, 10, 0, 0, nil, nil)
			So(errCode, ShouldEqual, ErrorCodeThermalNilSensor)
		})

		Convey("negative threshold is rejected", func() {
			_, errCode := NewDefaultHandler(sensor, -1, 3, 10, 0, 0, nil, nil)
			So(errCode, ShouldEqual, ErrorCodeThermalInvalidTemperatureThreshold)
		})

		Convey("min hot pixels must fit in the grid", func() {
			_, errCode := NewDefaultHandler(sensor, 6, 0, 10, 0, 0, nil, nil)
			So(errCode, ShouldEqual, ErrorCodeThermalInvalidMinHotPixels)
			_, errCode = NewDefaultHandler(sensor, 6, PixelCount+1, 10, 0, 0, nil, nil)
			So(errCode, ShouldEqual, ErrorCodeThermalInvalidMinHotPixels)
		})

		Convey("zero calibration samples are rejected", func() {
			_, errCode := NewDefaultHandler(sensor, 6, 3, 0, 0, 0, nil, nil)
			So(errCode, ShouldEqual, ErrorCodeThermalZeroCalibrationSamples)
		})
	})
}

func TestBegin(t *testing.T) {
	Convey("a sensor that does not answer fails begin", t, func() {
		sensor := &testSensor{configErr: ErrorCodeThermalSensorNotFound, frames: []Frame{uniformFrame(20)}}
		h := createTestDetector(sensor, &transitionRecorder{})

		So(h.Begin(), ShouldEqual, ErrorCodeThermalSensorNotFound)

		Convey("and detection stays unusable", func() {
			So(h.CalibrateAmbient(), ShouldEqual, ErrorCodeThermalNotInitialized)
			So(h.Update(), ShouldEqual, ErrorCodeThermalNotInitialized)
			So(sensor.reads, ShouldEqual, 0)
		})
	})
}

func TestCalibrateAmbient(t *testing.T) {
	Convey("given a started detector", t, func() {
		sensor := &testSensor{frames: []Frame{uniformFrame(20.0)}}
		h := createTestDetector(sensor, &transitionRecorder{})
		So(h.Begin(), ShouldEqual, tinygoerrors.ErrorCodeNil)

		Convey("the baseline starts at zero and uncalibrated", func() {
			So(h.GetAmbientTemperature(), ShouldEqual, 0)
			So(h.IsCalibrated(), ShouldBeFalse)
		})

		Convey("identical frames calibrate to their value exactly", func() {
			So(h.CalibrateAmbient(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(sensor.reads, ShouldEqual, 10)
			So(h.GetAmbientTemperature(), ShouldEqual, 20.0)
			So(h.GetStatus().AmbientTemperature, ShouldEqual, 20.0)
			So(h.IsCalibrated(), ShouldBeTrue)
		})

		Convey("the baseline averages across pixels and samples", func() {
			sensor.frames = []Frame{uniformFrame(19), uniformFrame(21)}
			So(h.CalibrateAmbient(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(h.GetAmbientTemperature(), ShouldAlmostEqual, 20.8, 0.0001)
		})

		Convey("a read failure keeps the previous baseline", func() {
			sensor.readErr = ErrorCodeThermalNotInitialized
			So(h.CalibrateAmbient(), ShouldEqual, ErrorCodeThermalNotInitialized)
			So(h.IsCalibrated(), ShouldBeFalse)
			So(h.GetAmbientTemperature(), ShouldEqual, 0)
		})
	})
}

func TestUpdate(t *testing.T) {
	Convey("given a detector calibrated at 20 degrees", t, func() {
		sensor := &testSensor{frames: []Frame{uniformFrame(20.0)}}
		recorder := &transitionRecorder{}
		h := createTestDetector(sensor, recorder)
		So(h.Begin(), ShouldEqual, tinygoerrors.ErrorCodeNil)
		So(h.CalibrateAmbient(), ShouldEqual, tinygoerrors.ErrorCodeNil)
		sensor.reads = 0

		Convey("exactly min hot pixels assert presence", func() {
			sensor.frames = []Frame{frameWithHotPixels(20, 27, 30, 28)}
			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)

			status := h.GetStatus()
			So(status.PresenceDetected, ShouldBeTrue)
			So(status.HotPixelCount, ShouldEqual, 3)
			So(status.MaxTemperature, ShouldEqual, 30.0)
			So(status.AmbientTemperature, ShouldEqual, 20.0)
			So(h.IsPresenceDetected(), ShouldBeTrue)
		})

		Convey("one pixel less does not", func() {
			sensor.frames = []Frame{frameWithHotPixels(20, 27, 30)}
			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)

			So(h.IsPresenceDetected(), ShouldBeFalse)
			So(h.GetHotPixelCount(), ShouldEqual, 2)
			So(h.GetMaxTemperature(), ShouldEqual, 30.0)
		})

		Convey("pixels exactly at the threshold are not hot", func() {
			sensor.frames = []Frame{frameWithHotPixels(20, 26, 26, 26)}
			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(h.GetHotPixelCount(), ShouldEqual, 0)
			So(h.GetMaxTemperature(), ShouldEqual, 0)
		})

		Convey("max temperature only considers hot pixels", func() {
			frame := frameWithHotPixels(20, 27)
			frame[63] = 25.9
			sensor.frames = []Frame{frame}
			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(h.GetMaxTemperature(), ShouldEqual, 27.0)
		})

		Convey("the last frame is exposed", func() {
			frame := frameWithHotPixels(20, 31)
			sensor.frames = []Frame{frame}
			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(h.GetPixels(), ShouldResemble, frame)
		})

		Convey("a read failure keeps the previous status", func() {
			sensor.frames = []Frame{frameWithHotPixels(20, 27, 30, 28)}
			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			sensor.readErr = ErrorCodeThermalSensorNotFound
			So(h.Update(), ShouldEqual, ErrorCodeThermalSensorNotFound)
			So(h.IsPresenceDetected(), ShouldBeTrue)
			So(h.GetHotPixelCount(), ShouldEqual, 3)
		})
	})
}

func TestUpdateUncalibrated(t *testing.T) {
	Convey("given a started but uncalibrated detector", t, func() {
		sensor := &testSensor{frames: []Frame{uniformFrame(20.0)}}
		recorder := &transitionRecorder{}
		h := createTestDetector(sensor, recorder)
		So(h.Begin(), ShouldEqual, tinygoerrors.ErrorCodeNil)
		So(h.IsCalibrated(), ShouldBeFalse)

		Convey("the threshold applies above zero degrees", func() {
			sensor.frames = []Frame{frameWithHotPixels(6.0, 6.5, 7, 8)}
			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(h.GetHotPixelCount(), ShouldEqual, 3)
			So(h.IsPresenceDetected(), ShouldBeTrue)
			So(h.GetMaxTemperature(), ShouldEqual, 8.0)
			So(h.GetStatus().AmbientTemperature, ShouldEqual, 0)
		})

		Convey("a room temperature frame reads as full presence", func() {
			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(h.GetHotPixelCount(), ShouldEqual, PixelCount)
			So(h.IsPresenceDetected(), ShouldBeTrue)
			So(len(recorder.statuses), ShouldEqual, 1)
		})
	})
}

func TestTransitions(t *testing.T) {
	Convey("given a calibrated detector", t, func() {
		present := frameWithHotPixels(20, 27, 30, 28)
		absent := uniformFrame(20)
		sensor := &testSensor{frames: []Frame{absent}}
		recorder := &transitionRecorder{}
		h := createTestDetector(sensor, recorder)
		So(h.Begin(), ShouldEqual, tinygoerrors.ErrorCodeNil)
		So(h.CalibrateAmbient(), ShouldEqual, tinygoerrors.ErrorCodeNil)
		sensor.reads = 0

		Convey("steady absence emits nothing", func() {
			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(recorder.statuses, ShouldBeEmpty)
		})

		Convey("each edge emits exactly one event", func() {
			sensor.frames = []Frame{present, present, absent, absent, present}

			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(len(recorder.statuses), ShouldEqual, 1)
			So(recorder.statuses[0].PresenceDetected, ShouldBeTrue)
			So(recorder.statuses[0].HotPixelCount, ShouldEqual, 3)

			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(len(recorder.statuses), ShouldEqual, 1)

			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(len(recorder.statuses), ShouldEqual, 2)
			So(recorder.statuses[1].PresenceDetected, ShouldBeFalse)

			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(len(recorder.statuses), ShouldEqual, 2)

			So(h.Update(), ShouldEqual, tinygoerrors.ErrorCodeNil)
			So(len(recorder.statuses), ShouldEqual, 3)
			So(recorder.statuses[2].PresenceDetected, ShouldBeTrue)
		})
	})
}

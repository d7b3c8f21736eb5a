package poolx

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockDisposable is a hand-written mockgen-style mock of Disposable, used to
// assert dispose-exactly-once semantics under the close/remove race without
// depending on a real resource type.
type MockDisposable struct {
	ctrl     *gomock.Controller
	recorder *MockDisposableMockRecorder
}

type MockDisposableMockRecorder struct {
	mock *MockDisposable
}

func NewMockDisposable(ctrl *gomock.Controller) *MockDisposable {
	m := &MockDisposable{ctrl: ctrl}
	m.recorder = &MockDisposableMockRecorder{m}
	return m
}

func (m *MockDisposable) EXPECT() *MockDisposableMockRecorder {
	return m.recorder
}

func (m *MockDisposable) Close() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Close")
	err, _ := ret[0].(error)
	return err
}

func (mr *MockDisposableMockRecorder) Close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Close", reflect.TypeOf((*MockDisposable)(nil).Close))
}

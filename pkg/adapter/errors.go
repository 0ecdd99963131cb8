/*
 * Copyright 2026 KMBridge Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package adapter

import "errors"

var (
	// ErrUnsupportedDeviceType is returned when no adapter family serves
	// the device's type.
	ErrUnsupportedDeviceType = errors.New("unsupported device type")

	// ErrUnsupportedOperation is returned for operations a device family
	// cannot serve.
	ErrUnsupportedOperation = errors.New("operation not supported by this device")

	// ErrDeviceNotReady is returned when a device refuses work in its
	// current state.
	ErrDeviceNotReady = errors.New("device not ready")

	// ErrEmptyJob is returned when a job carries neither payload nor file
	// path.
	ErrEmptyJob = errors.New("print job has no document")
)

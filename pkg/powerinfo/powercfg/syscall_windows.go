package powercfg

//go:generate go run golang.org/x/sys/windows/mkwinsyscall -output zsyscall_windows.go syscall_windows.go

// PowerEnumerate access flags.
const (
	accessScheme            uint32 = 16
	accessSubgroup          uint32 = 17
	accessIndividualSetting uint32 = 18
)

// https://learn.microsoft.com/en-us/windows/win32/api/powrprof/nf-powrprof-powerenumerate
//sys powerEnumerate(rootPowerKey windows.Handle, schemeGuid *windows.GUID, subgroupGuid *windows.GUID, accessFlags uint32, index uint32, buffer *byte, bufferSize *uint32) (ret error) = powrprof.PowerEnumerate

// https://learn.microsoft.com/en-us/windows/win32/api/powrprof/nf-powrprof-powerreadfriendlyname
//sys powerReadFriendlyName(rootPowerKey windows.Handle, schemeGuid *windows.GUID, subgroupGuid *windows.GUID, settingGuid *windows.GUID, buffer *byte, bufferSize *uint32) (ret error) = powrprof.PowerReadFriendlyName

// https://learn.microsoft.com/en-us/windows/win32/api/powrprof/nf-powrprof-powerreaddescription
//sys powerReadDescription(rootPowerKey windows.Handle, schemeGuid *windows.GUID, subgroupGuid *windows.GUID, settingGuid *windows.GUID, buffer *byte, bufferSize *uint32) (ret error) = powrprof.PowerReadDescription

// https://learn.microsoft.com/en-us/windows/win32/api/powersetting/nf-powersetting-powerreadacvalueindex
//sys powerReadACValueIndex(rootPowerKey windows.Handle, schemeGuid *windows.GUID, subgroupGuid *windows.GUID, settingGuid *windows.GUID, value *uint32) (ret error) = powrprof.PowerReadACValueIndex

// https://learn.microsoft.com/en-us/windows/win32/api/powersetting/nf-powersetting-powerreaddcvalueindex
//sys powerReadDCValueIndex(rootPowerKey windows.Handle, schemeGuid *windows.GUID, subgroupGuid *windows.GUID, settingGuid *windows.GUID, value *uint32) (ret error) = powrprof.PowerReadDCValueIndex

// https://learn.microsoft.com/en-us/windows/win32/api/powersetting/nf-powersetting-powerwriteacvalueindex
//sys powerWriteACValueIndex(rootPowerKey windows.Handle, schemeGuid *windows.GUID, subgroupGuid *windows.GUID, settingGuid *windows.GUID, value uint32) (ret error) = powrprof.PowerWriteACValueIndex

// https://learn.microsoft.com/en-us/windows/win32/api/powersetting/nf-powersetting-powerwritedcvalueindex
//sys powerWriteDCValueIndex(rootPowerKey windows.Handle, schemeGuid *windows.GUID, subgroupGuid *windows.GUID, settingGuid *windows.GUID, value uint32) (ret error) = powrprof.PowerWriteDCValueIndex

// https://learn.microsoft.com/en-us/windows/win32/api/powersetting/nf-powersetting-powergetactivescheme
//sys powerGetActiveScheme(userRootPowerKey windows.Handle, activePolicyGuid **windows.GUID) (ret error) = powrprof.PowerGetActiveScheme

// https://learn.microsoft.com/en-us/windows/win32/api/powersetting/nf-powersetting-powersetactivescheme
//sys powerSetActiveScheme(userRootPowerKey windows.Handle, schemeGuid *windows.GUID) (ret error) = powrprof.PowerSetActiveScheme
